package conference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSessions(t *testing.T) {
	speakers := []Speaker{
		{ID: "sp-1", Name: "Ada"},
		{ID: "sp-2", Name: "Grace"},
		{ID: "sp-3", Name: "Linus"},
	}
	sessions := []Session{
		{ID: "s-1", Title: "Keynote", SpeakerIDs: []string{"sp-2", "sp-1"}},
		{ID: "s-2", Title: "Panel", SpeakerIDs: []string{"sp-3", "missing", "sp-3"}},
		{ID: "s-3", Title: "Break"},
	}

	joined := JoinSessions(sessions, speakers)
	require.Len(t, joined, 3)

	assert.Equal(t, "Keynote", joined[0].Title)
	require.Len(t, joined[0].Speakers, 2)
	assert.Equal(t, "Grace", joined[0].Speakers[0].Name)
	assert.Equal(t, "Ada", joined[0].Speakers[1].Name)

	require.Len(t, joined[1].Speakers, 1)
	assert.Equal(t, "Linus", joined[1].Speakers[0].Name)

	assert.NotNil(t, joined[2].Speakers)
	assert.Empty(t, joined[2].Speakers)
}

func TestJoinSessions_Empty(t *testing.T) {
	joined := JoinSessions(nil, nil)
	assert.NotNil(t, joined)
	assert.Empty(t, joined)
}

func TestShares(t *testing.T) {
	shares := Shares([]DesignationBreakdown{
		{Designation: "Designer", Count: 1},
		{Designation: "Software Engineer", Count: 2},
		{Designation: "Ghost", Count: 0},
	})
	require.Len(t, shares, 2)
	assert.Equal(t, 33.3, shares[0].Percent)
	assert.Equal(t, 66.7, shares[1].Percent)

	assert.Empty(t, Shares(nil))
}

func TestSpeakerNames(t *testing.T) {
	speakers := []Speaker{{ID: "a", Name: "Ada"}, {ID: "b", Name: "Bob"}}
	assert.Equal(t, []string{"Bob", "Ada"}, SpeakerNames([]string{"b", "x", "a"}, speakers))
}

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid", RegisterRequest{"Jane", "Jane@Example.com", "Designer"}, false},
		{"missing name", RegisterRequest{"  ", "jane@example.com", "Designer"}, true},
		{"missing email", RegisterRequest{"Jane", "", "Designer"}, true},
		{"bad email", RegisterRequest{"Jane", "not-an-email", "Designer"}, true},
		{"display name form", RegisterRequest{"Jane", "Jane <jane@example.com>", "Designer"}, true},
		{"missing designation", RegisterRequest{"Jane", "jane@example.com", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize().Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterRequest_NormalizeLowercasesEmail(t *testing.T) {
	got := RegisterRequest{Name: " Jane ", Email: " Jane@Example.COM ", Designation: " Student "}.Normalize()
	assert.Equal(t, RegisterRequest{Name: "Jane", Email: "jane@example.com", Designation: "Student"}, got)
}

func TestSpeaker_Validate(t *testing.T) {
	assert.NoError(t, Speaker{Name: "Ada", TwitterURL: "https://x.com/ada"}.Validate())
	assert.ErrorIs(t, Speaker{}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Speaker{Name: "Ada", ImageURL: "ftp://example.com/a.png"}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Speaker{Name: "Ada", LinkedInURL: "/relative"}.Validate(), ErrInvalid)
}

func TestSpeaker_ValidateReportsFirstBadLink(t *testing.T) {
	sp := Speaker{Name: "Ada", ImageURL: "nope", LinkedInURL: "nope", TwitterURL: "nope"}
	for i := 0; i < 20; i++ {
		err := sp.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "imageUrl must be an absolute http(s) URL")
	}

	sp.ImageURL = ""
	assert.Contains(t, sp.Validate().Error(), "linkedinUrl")
}

func TestSession_NormalizeAndValidate(t *testing.T) {
	s := Session{Title: " Talk ", Time: "10:00", SpeakerIDs: []string{"a", "", " a ", "b"}}.Normalize()
	assert.Equal(t, "Talk", s.Title)
	assert.Equal(t, []string{"a", "b"}, s.SpeakerIDs)
	assert.NoError(t, s.Validate())

	empty := Session{Title: "x", Time: "y"}.Normalize()
	assert.NotNil(t, empty.SpeakerIDs)

	assert.ErrorIs(t, Session{Time: "10:00"}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Session{Title: "Talk"}.Validate(), ErrInvalid)
}
