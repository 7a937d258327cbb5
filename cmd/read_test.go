package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"palm-bot/internal/domain/entity"
)

func TestReadCommand_PrintsReading(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"read",
		"--name", "Ann", "--age", "28", "--dob", "1996-01-01",
		"--country", "Canada", "--city", "Toronto", "--gender", "female",
		"--seed", "7", "--date", "2026-10-17",
	})
	require.NoError(t, cmd.Execute())

	var reading entity.PalmReading
	require.NoError(t, json.Unmarshal(out.Bytes(), &reading))
	require.Contains(t, reading.FateLine, "25th year")
	require.Contains(t, reading.Career, "age 35")
	require.Contains(t, reading.FutureInsights, "1/15/2027")
}

func TestReadCommand_MissingField(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"read", "--name", "Ann"})

	err := cmd.Execute()
	require.EqualError(t, err, "Please fill in your age")
}

func TestReadCommand_BadDate(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"read",
		"--name", "Ann", "--age", "28", "--dob", "x", "--country", "Canada",
		"--city", "Toronto", "--gender", "female", "--date", "17.10.2026",
	})
	require.ErrorContains(t, cmd.Execute(), "invalid --date")
}
