package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	type testCase struct {
		input          string
		expectedResult *Duration
		expectedErr    bool
	}
	testCases := []testCase{
		{
			input:          "10s",
			expectedResult: &Duration{Duration: 10 * time.Second},
		},
		{
			input:          "2m30s",
			expectedResult: &Duration{Duration: 2*time.Minute + 30*time.Second},
		},
		{
			input:       "ten seconds",
			expectedErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			var d Duration
			input, err := json.Marshal(testCase.input)
			require.NoError(t, err)
			err = json.Unmarshal(input, &d)
			if testCase.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expectedResult.Duration, d.Duration)
		})
	}
}

func TestDurationJSONSchema(t *testing.T) {
	schema := NewDuration(time.Second).JSONSchema()
	require.Equal(t, "string", schema.Type)
}
