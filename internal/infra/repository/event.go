package repository

import (
	"context"
	"errors"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/infra"
	"datenight/internal/infra/db"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EventRepository struct {
	db db.DBTX
}

func NewEventRepository(dbtx db.DBTX) *EventRepository {
	return &EventRepository{db: dbtx}
}

const eventColumns = `id, external_id, title, starts_at,
	capacity_male, capacity_female, signed_up_male, signed_up_female`

func (r *EventRepository) FindByLocalID(ctx context.Context, localID uuid.UUID) (*event.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, localID)
	return scanEvent(row)
}

func (r *EventRepository) FindByExternalID(ctx context.Context, externalID event.ExternalID) (*event.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE external_id = $1`, externalID.String())
	return scanEvent(row)
}

func scanEvent(row pgx.Row) (*event.Event, error) {
	var (
		id         uuid.UUID
		externalID string
		title      string
		startsAt   time.Time
		capM, capF int
		upM, upF   int
	)
	if err := row.Scan(&id, &externalID, &title, &startsAt, &capM, &capF, &upM, &upF); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "event not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan event", err)
	}

	male, err := event.NewPool(capM, upM)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindCheckViolated, "male pool out of bounds", err)
	}
	female, err := event.NewPool(capF, upF)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindCheckViolated, "female pool out of bounds", err)
	}

	return event.Reconstruct(id, event.ExternalID(externalID), title, startsAt, male, female), nil
}

func signedUpColumn(g event.Gender) string {
	if g == event.GenderMale {
		return "signed_up_male"
	}
	return "signed_up_female"
}

func (r *EventRepository) UpdatePool(ctx context.Context, localID uuid.UUID, g event.Gender, pool event.Pool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET `+signedUpColumn(g)+` = $2 WHERE id = $1`,
		localID, pool.SignedUp())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update seat pool", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "event not found", pgx.ErrNoRows)
	}
	return nil
}

func (r *EventRepository) AddMember(ctx context.Context, localID uuid.UUID, m event.Member) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO event_members (event_id, user_id, gender, joined_at)
		 VALUES ($1, $2, $3, $4)`,
		localID, m.UserID, m.Gender.String(), m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "user already a member", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to add event member", err)
	}
	return nil
}

func (r *EventRepository) RemoveMember(ctx context.Context, localID, userID uuid.UUID) (*event.Member, error) {
	var (
		gender   string
		joinedAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`DELETE FROM event_members WHERE event_id = $1 AND user_id = $2
		 RETURNING gender, joined_at`,
		localID, userID).Scan(&gender, &joinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "member not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to remove event member", err)
	}

	g, gerr := event.ParseGender(gender)
	if gerr != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored gender is invalid", gerr)
	}

	return &event.Member{UserID: userID, Gender: g, JoinedAt: joinedAt}, nil
}

func (r *EventRepository) MembershipsByUser(ctx context.Context, userID uuid.UUID) ([]shared.Membership, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.event_id, e.external_id, m.gender, m.joined_at
		 FROM event_members m
		 JOIN events e ON e.id = m.event_id
		 WHERE m.user_id = $1
		 ORDER BY m.joined_at`,
		userID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query memberships", err)
	}
	defer rows.Close()

	var memberships []shared.Membership
	for rows.Next() {
		var (
			ms         shared.Membership
			externalID string
			gender     string
		)
		if err := rows.Scan(&ms.EventID, &externalID, &gender, &ms.JoinedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan membership", err)
		}
		g, gerr := event.ParseGender(gender)
		if gerr != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored gender is invalid", gerr)
		}
		ms.EventExternalID = event.ExternalID(externalID)
		ms.Gender = g
		memberships = append(memberships, ms)
	}
	return memberships, rows.Err()
}

func (r *EventRepository) AppendWaitlist(ctx context.Context, localID uuid.UUID, e event.WaitlistEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO event_waitlist (event_id, user_id, gender, requested_at)
		 VALUES ($1, $2, $3, $4)`,
		localID, e.UserID, e.Gender.String(), e.RequestedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "user already waitlisted", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to append waitlist entry", err)
	}
	return nil
}

func (r *EventRepository) ListWaitlist(ctx context.Context, localID uuid.UUID, g event.Gender) ([]event.WaitlistEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, requested_at FROM event_waitlist
		 WHERE event_id = $1 AND gender = $2
		 ORDER BY requested_at, user_id`,
		localID, g.String())
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query waitlist", err)
	}
	defer rows.Close()

	var entries []event.WaitlistEntry
	for rows.Next() {
		e := event.WaitlistEntry{Gender: g}
		if err := rows.Scan(&e.UserID, &e.RequestedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan waitlist entry", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *EventRepository) RemoveWaitlisted(ctx context.Context, localID, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_waitlist WHERE event_id = $1 AND user_id = $2`,
		localID, userID)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to remove waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "waitlist entry not found", pgx.ErrNoRows)
	}
	return nil
}
