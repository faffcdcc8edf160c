// Package benchtestutils provides test infrastructure for the bench
// harness's own compiled-binary smoke tests.
package benchtestutils

import (
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the vanvinkl-dspbench binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(thisFile))))
	binaryPath := filepath.Join(projectRoot, "bin", "vanvinkl-dspbench")

	return agar.Setup(binaryPath)
}
