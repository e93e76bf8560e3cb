package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"taxengine/internal/rules"
)

const sampleJSON = `{
  "taxYear": 2025,
  "filingStatus": "single",
  "w2s": [{"employer": "Acme", "wages": 7500000, "federalWithheld": 900000,
           "states": [{"state": "CA", "wages": 7500000, "withheld": 300000}]}],
  "states": [{"stateCode": "CA", "residency": "full_year"}]
}`

func writeReturn(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "return.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), append([]string{"--log-level", "error"}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

type computed struct {
	TaxYear  int `json:"taxYear"`
	Form1040 struct {
		TotalTax int64 `json:"totalTax"`
		Refund   int64 `json:"refund"`
	} `json:"form1040"`
	States []struct {
		StateCode       string `json:"stateCode"`
		TaxAfterCredits int64  `json:"taxAfterCredits"`
	} `json:"states"`
	Fingerprint string `json:"fingerprint"`
}

func TestCompute_Stdout(t *testing.T) {
	code, out, _ := run(t, "", "compute", writeReturn(t, sampleJSON))
	require.Equal(t, ExitSuccess, code)

	var res computed
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int64(811_400), res.Form1040.TotalTax)
	require.Len(t, res.States, 1)
	assert.Equal(t, int64(277_457), res.States[0].TaxAfterCredits)
}

func TestCompute_Stdin(t *testing.T) {
	code, out, _ := run(t, sampleJSON, "compute", "-")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, `"fingerprint"`)
}

func TestCompute_OutFileIsWrittenWhole(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "result.json")

	code, out, _ := run(t, "", "compute", "--pretty", "-o", dst, writeReturn(t, sampleJSON))

	require.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	var res computed
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 2025, res.TaxYear)

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestCompute_YearOverride(t *testing.T) {
	code, out, _ := run(t, "", "compute", "--year", "2024", writeReturn(t, sampleJSON))
	require.Equal(t, ExitSuccess, code)
	var res computed
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2024, res.TaxYear)
}

func TestCompute_Explain(t *testing.T) {
	code, out, _ := run(t, "", "compute", "--explain", "f1040.line11", writeReturn(t, sampleJSON))
	require.Equal(t, ExitSuccess, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "(f1040.line11) = $75,000.00")

	code, _, _ = run(t, "", "compute", "--explain", "no.such.node", writeReturn(t, sampleJSON))
	assert.Equal(t, ExitInvalidInvocation, code)
}

func TestCompute_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unsupported year", []string{"compute", writeReturn(t, strings.Replace(sampleJSON, "2025", "2019", 1))}, ExitComputeFailure},
		{"unknown field", []string{"compute", writeReturn(t, `{"taxYear":2025,"wagez":1}`)}, ExitInvalidInvocation},
		{"trailing content", []string{"compute", writeReturn(t, `{"taxYear":2025} {}`)}, ExitInvalidInvocation},
		{"missing file", []string{"compute", filepath.Join(t.TempDir(), "none.json")}, ExitInvalidInvocation},
		{"no args", []string{"compute"}, ExitInvalidInvocation},
		{"bad flag", []string{"compute", "--nope", "x"}, ExitInvalidInvocation},
		{"unknown command", []string{"frobnicate"}, ExitInvalidInvocation},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "years"}, ExitConfigError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := run(t, "", tc.args...)
			assert.Equal(t, tc.want, code)
			assert.True(t, strings.HasPrefix(stderr, "taxengine: "), stderr)
		})
	}
}

func TestGap(t *testing.T) {
	code, out, _ := run(t, "", "gap", writeReturn(t, sampleJSON))
	require.Equal(t, ExitSuccess, code)

	var res struct {
		ReadyToFile bool `json:"readyToFile"`
		Items       []struct {
			Field string `json:"field"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.ReadyToFile)
	assert.NotEmpty(t, res.Items)
}

func TestGap_UnsupportedYearStillScores(t *testing.T) {
	code, out, _ := run(t, "", "gap", "--year", "2019", writeReturn(t, sampleJSON))
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, `"completionPercent"`)
}

func TestYears(t *testing.T) {
	code, out, _ := run(t, "", "years")
	require.Equal(t, ExitSuccess, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "2024  standard deduction $14,600.00 single"))
	assert.True(t, strings.HasPrefix(lines[1], "2025  standard deduction $15,000.00 single"))
	assert.Contains(t, lines[1], "states (27)")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitInternalError, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitComputeFailure, ExitCode(&rules.LookupError{Kind: rules.ErrUnsupportedYear, Msg: "1999"}))
	assert.Equal(t, ExitConfigError, ExitCode(configError(errors.New("bad"))))
}

func TestWatchFile_RecomputesOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeReturn(t, sampleJSON)

	var calls atomic.Int32
	changed := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- watchFile(ctx, path, 20*time.Millisecond, zap.NewNop(), func() {
			calls.Add(1)
			changed <- struct{}{}
		})
	}()

	// The watcher may not be registered yet; keep writing until it notices.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
wait:
	for {
		select {
		case <-changed:
			break wait
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))
		case <-deadline:
			t.Fatal("no change observed")
		}
	}

	cancel()
	require.NoError(t, <-errc)
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestWatchFile_IgnoresSiblings(t *testing.T) {
	path := writeReturn(t, sampleJSON)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var calls atomic.Int32
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("{}"), 0o644)
	}()
	require.NoError(t, watchFile(ctx, path, 10*time.Millisecond, zap.NewNop(), func() { calls.Add(1) }))
	assert.Zero(t, calls.Load())
}
