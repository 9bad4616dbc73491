package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending() *Contribution {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return &Contribution{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Title:       "Nest",
		Description: "Hornbill nest in a fig tree",
		Kind:        KindObservation,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusApproved))
	assert.True(t, CanTransition(StatusPending, StatusRejected))
	assert.False(t, CanTransition(StatusApproved, StatusRejected))
	assert.False(t, CanTransition(StatusRejected, StatusApproved))
	assert.False(t, CanTransition(StatusApproved, StatusPending))
}

func TestApprove_LeavesOriginalUntouched(t *testing.T) {
	c := pending()
	admin := uuid.New()
	at := c.CreatedAt.Add(time.Hour)

	next, err := c.Approve(admin, at)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, next.Status)
	assert.Equal(t, admin, *next.ApproverID)
	assert.Equal(t, at, *next.ApprovedAt)
	assert.Equal(t, at, next.UpdatedAt)

	assert.Equal(t, StatusPending, c.Status)
	assert.Nil(t, c.ApproverID)

	_, err = next.Approve(admin, at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReject_NotesHandling(t *testing.T) {
	c := pending()
	draft := "needs a photo"
	c.AdminNotes = &draft

	kept, err := c.Reject(nil, time.Now())
	require.NoError(t, err)
	require.NotNil(t, kept.AdminNotes)
	assert.Equal(t, "needs a photo", *kept.AdminNotes)

	final := "duplicate"
	replaced, err := c.Reject(&final, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "duplicate", *replaced.AdminNotes)

	_, err = replaced.Reject(&final, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateRequest_Apply(t *testing.T) {
	c := pending()
	c.Payload = json.RawMessage(`{"a":1}`)
	title := "Nest, confirmed"

	next := UpdateContributionRequest{Title: &title}.Apply(c)
	assert.Equal(t, "Nest, confirmed", next.Title)
	assert.JSONEq(t, `{"a":1}`, string(next.Payload))
	assert.Equal(t, "Nest", c.Title)

	cleared := UpdateContributionRequest{Payload: json.RawMessage(`null`)}.Apply(c)
	assert.Nil(t, cleared.Payload)
}

func TestDecodeUpdateContributionRequest(t *testing.T) {
	req, err := DecodeUpdateContributionRequest([]byte(`{"title":"New","location":"Ridge"}`))
	require.NoError(t, err)
	assert.Equal(t, "New", *req.Title)
	assert.Equal(t, "Ridge", *req.Location)

	for _, body := range []string{
		`{"approver_id":"` + uuid.NewString() + `"}`,
		`{"admin_notes":"self approved"}`,
		`{"owner_id":"` + uuid.NewString() + `"}`,
		`{"unknown":true}`,
		`[1,2]`,
	} {
		_, err := DecodeUpdateContributionRequest([]byte(body))
		assert.Error(t, err, body)
	}
}
