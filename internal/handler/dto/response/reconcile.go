package response

import (
	"datenight/internal/usecase/commands"
)

type ReconcileFailureResponse struct {
	EventExternalID string `json:"eventExternalId"`
	Reason          string `json:"reason"`
}

type ReconcileResponse struct {
	EventsChecked    int                        `json:"eventsChecked"`
	RecordsRepaired  int                        `json:"recordsRepaired"`
	Enrolled         []string                   `json:"enrolled"`
	LatestEventID    *string                    `json:"latestEventId,omitempty"`
	WaitlistsChecked int                        `json:"waitlistsChecked"`
	Failures         []ReconcileFailureResponse `json:"failures"`
}

func FromReconcileReport(r *commands.ReconcileReport) *ReconcileResponse {
	resp := &ReconcileResponse{
		EventsChecked:    r.EventsChecked,
		RecordsRepaired:  r.RecordsRepaired,
		Enrolled:         make([]string, 0, len(r.Enrolled)),
		WaitlistsChecked: r.WaitlistsChecked,
		Failures:         make([]ReconcileFailureResponse, 0, len(r.Failures)),
	}
	for _, id := range r.Enrolled {
		resp.Enrolled = append(resp.Enrolled, id.String())
	}
	if r.LatestEventID != nil {
		s := r.LatestEventID.String()
		resp.LatestEventID = &s
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, ReconcileFailureResponse{
			EventExternalID: f.EventExternalID.String(),
			Reason:          f.Reason,
		})
	}
	return resp
}
