package vm

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jweissman/aua-sub001/internal/llm"
	"github.com/jweissman/aua-sub001/internal/types"
)

// fakeClient is a scripted llm.Client: each Generate call consumes the
// next queued response, so tests can drive CAST/GEN without a network.
type fakeClient struct {
	responses []string
	jsonModes []bool
	prompts   []string
	calls     int
	err       error
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, jsonMode bool) (string, int, error) {
	f.prompts = append(f.prompts, prompt)
	f.jsonModes = append(f.jsonModes, jsonMode)
	if f.err != nil {
		return "", 0, f.err
	}
	if f.calls >= len(f.responses) {
		panic("fakeClient: ran out of scripted responses")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, 1, nil
}

// newTestVM builds a VM with a scripted fakeClient in place of the
// cached HTTP client, so evaluation tests never touch the network or
// disk cache.
func newTestVM(t *testing.T, responses ...string) (*VM, *fakeClient) {
	t.Helper()
	client := &fakeClient{responses: responses}
	var out bytes.Buffer
	v := &VM{
		Registry:  types.NewRegistry(),
		Global:    NewEnvironment(nil),
		Client:    client,
		Out:       &out,
		In:        bytes.NewBufferString(""),
		importing: make(map[string]bool),
	}
	return v, client
}

func (v *VM) outBuf() *bytes.Buffer {
	return v.Out.(*bytes.Buffer)
}

func runSource(t *testing.T, v *VM, source string) (Obj, error) {
	t.Helper()
	return v.Run(source)
}

func tempImportFile(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

var _ llm.Client = (*fakeClient)(nil)
