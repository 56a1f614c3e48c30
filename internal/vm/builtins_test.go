package vm

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskReadsOneLineFromInAndEchoesPrompt(t *testing.T) {
	v, _ := newTestVM(t)
	v.In = bytes.NewBufferString("Ada\n")
	result, err := runSource(t, v, `ask "name? "`)
	require.NoError(t, err)
	assert.Equal(t, Str{Value: "Ada"}, result)
	assert.Equal(t, "name? ", v.outBuf().String())
}

func TestChatSendsPromptAndReturnsRawText(t *testing.T) {
	v, client := newTestVM(t, "a fine response")
	result, err := runSource(t, v, `chat "hello"`)
	require.NoError(t, err)
	assert.Equal(t, Str{Value: "a fine response"}, result)
	require.Len(t, client.prompts, 1)
	assert.Equal(t, "hello", client.prompts[0])
	assert.False(t, client.jsonModes[0])
}

func TestTypeofReportsKlassNameForRecordObjectsAndKindOtherwise(t *testing.T) {
	v, _ := newTestVM(t, `{"name":"Ada","age":36}`)
	result, err := runSource(t, v, `type Person = { name: Str, age: Int }
typeof("Ada is thirty-six" as Person)`)
	require.NoError(t, err)
	assert.Equal(t, Str{Value: "Person"}, result)

	result, err = runSource(t, v, "typeof(1)")
	require.NoError(t, err)
	assert.Equal(t, Str{Value: "Int"}, result)
}

func TestTypeofReportsGenericParameterizationForCastLists(t *testing.T) {
	v, _ := newTestVM(t, `[1,2,3]`)
	result, err := runSource(t, v, `typeof("one two three" as List<Int>)`)
	require.NoError(t, err)
	assert.Equal(t, Str{Value: "List<Int>"}, result)
}

func TestInspectProducesTypeTaggedProjection(t *testing.T) {
	v, _ := newTestVM(t)
	result, err := runSource(t, v, `inspect(42)`)
	require.NoError(t, err)
	assert.Equal(t, Str{Value: "Int(42)"}, result)
}

func TestRandIsWithinBounds(t *testing.T) {
	v, _ := newTestVM(t)
	v.rng = rand.New(rand.NewSource(1))
	result, err := runSource(t, v, "rand 10")
	require.NoError(t, err)
	n, ok := result.(Int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, n.Value, int64(0))
	assert.Less(t, n.Value, int64(10))
}

func TestTimeNowAndRFC3339Parse(t *testing.T) {
	v, _ := newTestVM(t)
	result, err := runSource(t, v, `time "now"`)
	require.NoError(t, err)
	_, ok := result.(Time)
	assert.True(t, ok)

	result, err = runSource(t, v, `time "2024-01-02T15:04:05Z"`)
	require.NoError(t, err)
	parsed, ok := result.(Time)
	require.True(t, ok)
	want, _ := time.Parse(time.RFC3339, "2024-01-02T15:04:05Z")
	assert.True(t, want.Equal(parsed.Value))
}

func TestImportRunsAnotherFile(t *testing.T) {
	v, _ := newTestVM(t)
	childPath := tempImportFile(t, "child.aua", "41 + 1")
	result, err := runSource(t, v, `import "`+childPath+`"`)
	require.NoError(t, err)
	assert.Equal(t, Int{Value: 42}, result)
}

func TestImportDetectsCircularImports(t *testing.T) {
	v, _ := newTestVM(t)
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.aua")
	bPath := filepath.Join(dir, "b.aua")
	require.NoError(t, os.WriteFile(aPath, []byte(`import "`+bPath+`"`), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte(`import "`+aPath+`"`), 0o644))

	_, err := runSource(t, v, `import "`+aPath+`"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular import")
}

func TestLoadYamlLiftsIntoAnObjectLiteral(t *testing.T) {
	v, _ := newTestVM(t)
	path := tempImportFile(t, "data.yaml", "name: Ada\nage: 36\n")
	result, err := runSource(t, v, `load_yaml "`+path+`"`)
	require.NoError(t, err)
	obj, ok := result.(*ObjectLiteral)
	require.True(t, ok)
	assert.Equal(t, Str{Value: "Ada"}, obj.Fields["name"])
	assert.Equal(t, Int{Value: 36}, obj.Fields["age"])
}
