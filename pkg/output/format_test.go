package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	formatter := New(FormatJSON)
	formatter.SetWriter(&buf)

	data := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{Name: "engine_rpm", Value: 42}

	require.NoError(t, formatter.Output(data))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "engine_rpm", decoded["name"])
	assert.Equal(t, float64(42), decoded["value"])
}

func TestFormatterTable(t *testing.T) {
	var buf bytes.Buffer
	formatter := New(FormatText)
	formatter.SetWriter(&buf)

	err := formatter.Table(
		[]string{"ID", "NAME", "STATUS"},
		[][]string{
			{"1", "van-001", "active"},
			{"2", "truck-014", "maintenance"},
		},
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], "van-001")
	assert.Contains(t, lines[2], "maintenance")
}

func TestFormatterKeyValues(t *testing.T) {
	var buf bytes.Buffer
	formatter := New(FormatText)
	formatter.SetWriter(&buf)

	err := formatter.KeyValues([][2]string{
		{"Vehicle ID", "12"},
		{"Status", "active"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Vehicle ID:")
	assert.Contains(t, out, "active")
}

func TestFormatterPredicates(t *testing.T) {
	assert.True(t, New(FormatJSON).IsJSON())
	assert.False(t, New(FormatJSON).IsText())
	assert.True(t, New(FormatText).IsText())
	assert.False(t, New(FormatText).IsJSON())
}

func TestGetFormatFromCmd(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		want    Format
		wantErr bool
	}{
		{"default text", "text", FormatText, false},
		{"json", "json", FormatJSON, false},
		{"invalid", "yaml", FormatText, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			AddFormatFlag(cmd)
			require.NoError(t, cmd.Flags().Set("output", tc.value))

			format, err := GetFormatFromCmd(cmd)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, format)
		})
	}
}

func TestOutputUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	formatter := New(Format("yaml"))
	formatter.SetWriter(&buf)

	assert.Error(t, formatter.Output("anything"))
}
