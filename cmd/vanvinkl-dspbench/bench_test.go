package main_test

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"

	"github.com/Bojan20/vanvinkl-dsp/cmd/vanvinkl-dspbench/benchtestutils"
	"github.com/Bojan20/vanvinkl-dsp/internal/pcm"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// writeSineFixture renders one second of a quiet 440Hz stereo sine wave as
// raw 16-bit little-endian PCM and returns the path to the written file.
func writeSineFixture(t *testing.T, sampleRate int) string {
	t.Helper()

	frames := sampleRate
	left := make([]float64, frames)
	right := make([]float64, frames)

	for i := range left {
		left[i] = 0.2 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		right[i] = left[i]
	}

	data, err := pcm.EncodeStereo(left, right, pcm.Depth16)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sine.pcm")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	return path
}

func TestRunReportsFinalMetersOnCleanSine(t *testing.T) {
	testCase := benchtestutils.Setup()
	fixture := writeSineFixture(t, 48000)

	testCase.SubTests = []*test.Case{
		{
			Description: "a quiet clean sine produces a final report with no clipping",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"run",
					"--sample-rate", "48000",
					"--bit-depth", "16",
					"--channels", "2",
					"--quiet",
					fixture,
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains("final report"),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestRunRejectsUnsupportedBitDepth(t *testing.T) {
	testCase := benchtestutils.Setup()
	fixture := writeSineFixture(t, 48000)

	testCase.SubTests = []*test.Case{
		{
			Description: "an unsupported bit depth fails fast with a clear error",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"run",
					"--sample-rate", "48000",
					"--bit-depth", "8",
					"--channels", "2",
					fixture,
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeGenericFail,
				}
			},
		},
	}

	testCase.Run(t)
}
