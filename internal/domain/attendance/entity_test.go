package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"present", StatusPresent, false},
		{"absent", StatusAbsent, false},
		{"late", StatusLate, false},
		{"leave", StatusLeave, false},
		{" LATE ", StatusLate, false},
		{"sick", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseClientStatus(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_ClientMapsEveryStatus(t *testing.T) {
	for _, s := range Statuses {
		back, err := ParseClientStatus(s.Client())
		require.NoError(t, err)
		assert.Equal(t, s, back)
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("SICK").Valid())
}

func TestEditable(t *testing.T) {
	today := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	assert.True(t, Editable(today, today))
	assert.True(t, Editable(today.AddDate(0, 0, -7), today))
	assert.False(t, Editable(today.AddDate(0, 0, -8), today))
}

func TestUpdateAttendanceRequest_Validate(t *testing.T) {
	req := UpdateAttendanceRequest{
		ClassID: "class-1",
		Date:    "13-03-2024",
		Submissions: []Submission{
			{StudentID: "s1", Status: "present"},
			{StudentID: "s1", Status: "gone"},
			{Status: "late"},
		},
	}

	err := req.Validate()
	require.Error(t, err)

	fields := err.(interface{ ToMap() map[string]string }).ToMap()
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "submissions[1].status")
	assert.Contains(t, fields, "submissions[1].studentId")
	assert.Contains(t, fields, "submissions[2].studentId")
}

func TestSaveDraftRequest_ValidateAllowsEmptyList(t *testing.T) {
	req := SaveDraftRequest{ClassID: "class-1"}
	assert.NoError(t, req.Validate())
}
