package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/flowroute/pkg/config"
	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainEvents = `[
  {"kind": "add", "id": "root",
   "headerRect": {"x": 80, "y": 0, "width": 40, "height": 40},
   "bodyRect": {"x": 0, "y": 0, "width": 200, "height": 40}},
  {"kind": "add", "id": "a", "parentId": "root", "isInCollection": true, "positionInCollection": 0,
   "headerRect": {"x": 80, "y": 100, "width": 40, "height": 40},
   "bodyRect": {"x": 80, "y": 100, "width": 40, "height": 40}},
  {"kind": "add", "id": "b", "parentId": "root", "isInCollection": true, "positionInCollection": 1,
   "headerRect": {"x": 80, "y": 200, "width": 40, "height": 40},
   "bodyRect": {"x": 80, "y": 200, "width": 40, "height": 40}}
]`

const linkEvents = `
{"kind": "add", "id": "from-1", "headerRect": {"x": 80, "y": 0, "width": 40, "height": 40}, "bodyRect": {"x": 80, "y": 0, "width": 40, "height": 40}}
{"kind": "add", "id": "to-1", "headerRect": {"x": 80, "y": 100, "width": 40, "height": 40}, "bodyRect": {"x": 80, "y": 100, "width": 40, "height": 40}}
{"kind": "add", "id": "to-2", "headerRect": {"x": 80, "y": 200, "width": 40, "height": 40}, "bodyRect": {"x": 80, "y": 200, "width": 40, "height": 40}}
{"kind": "add", "id": "from-2", "headerRect": {"x": 400, "y": 300, "width": 40, "height": 40}, "bodyRect": {"x": 400, "y": 300, "width": 40, "height": 40}}
`

const linkFlow = `
name: orders
steps:
  - {id: from-1, kind: from, uri: "direct:start"}
  - {id: to-1, kind: to, uri: "direct:next"}
  - {id: to-2, kind: to, uri: "direct:next"}
  - {id: from-2, kind: from, uri: "direct://next"}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRouteCommand_JSON(t *testing.T) {
	events := writeFile(t, "events.json", chainEvents)

	out, _, err := run(t, "", "route", "--events", events)
	require.NoError(t, err)

	var res struct {
		Edges []struct {
			ID    string   `json:"id"`
			Path  string   `json:"path"`
			Nodes []string `json:"nodes"`
		} `json:"edges"`
		Version uint64 `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	require.Len(t, res.Edges, 2)
	assert.Equal(t, "parentChild:a", res.Edges[0].ID)
	assert.Equal(t, "cubic", res.Edges[0].Path)
	assert.Equal(t, "line", res.Edges[1].Path)
	assert.Equal(t, uint64(3), res.Version)
}

func TestRouteCommand_YAMLFromStdin(t *testing.T) {
	out, _, err := run(t, chainEvents, "route", "--events", "-", "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "id: parentChild:b")
	assert.Contains(t, out, "path: line")
}

func TestRouteCommand_WithFlow(t *testing.T) {
	events := writeFile(t, "events.jsonl", linkEvents)
	flowPath := writeFile(t, "flow.yaml", linkFlow)

	out, _, err := run(t, "", "route", "-e", events, "-f", flowPath)
	require.NoError(t, err)

	assert.Contains(t, out, `"internal:to-1->from-2#direct:next"`)
	assert.Contains(t, out, `"incoming:from-1"`)
	assert.NotContains(t, out, `"outgoing:to-2"`, "ambiguous losers get no stub")
}

func TestRouteCommand_Errors(t *testing.T) {
	events := writeFile(t, "events.json", chainEvents)
	badEvents := writeFile(t, "bad.json", `[{"kind": "add"}]`)
	badFlow := writeFile(t, "flow.yaml", "rules:\n  incoming: 'nope'\nsteps: []\n")

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"missing events flag", []string{"route"}, nil},
		{"unknown format", []string{"route", "-e", events, "--format", "xml"}, nil},
		{"missing file", []string{"route", "-e", filepath.Join(t.TempDir(), "none.json")}, nil},
		{"event without id", []string{"route", "-e", badEvents}, flowerrors.ErrInvalidArgument},
		{"bad flow rule", []string{"route", "-e", events, "-f", badFlow}, flowerrors.ErrInvalidFlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	events := writeFile(t, "events.jsonl", linkEvents)
	flowPath := writeFile(t, "flow.yaml", linkFlow)

	out, _, err := run(t, "", "check", "-e", events, "-f", flowPath)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Events match schema")
	assert.Contains(t, out, "✓ 4 events applied")
	assert.Contains(t, out, "✓ Flow rules evaluate")
	assert.Contains(t, out, "Internal:     1")
	assert.Contains(t, out, "⚠ direct:next also claimed by to-2 (linked from to-1)")
}

func TestCheckCommand_SchemaFailure(t *testing.T) {
	events := writeFile(t, "events.json", `[{"kind": "move", "id": "a"}]`)

	_, stderr, err := run(t, "", "check", "-e", events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, flowerrors.ErrInvalidEvent))
	assert.Contains(t, stderr, "✗ Event schema validation failed")
}

func TestPreviewCommand_Plain(t *testing.T) {
	events := writeFile(t, "events.json", chainEvents)

	out, _, err := run(t, "", "preview", "-e", events, "--plain", "--width", "40", "--height", "20")
	require.NoError(t, err)

	assert.Contains(t, out, "root")
	assert.Contains(t, out, "▼")

	_, _, err = run(t, "", "preview", "-e", events, "--plain", "--width", "0")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, _, err := run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "gap: 40")
	assert.Contains(t, out, "loopOffset: 24")

	path := writeFile(t, "routing.yaml", "gap: 55\n")
	out, _, err = run(t, "", "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "gap: 55")
}

func TestConfigCommand_EnvOverridesFlag(t *testing.T) {
	flagPath := writeFile(t, "flag.yaml", "gap: 55\n")
	envPath := writeFile(t, "env.yaml", "gap: 70\n")

	var stdout bytes.Buffer
	t.Setenv(config.EnvConfigPath, envPath)
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", flagPath, "config"})
	cmd.SetOut(&stdout)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "gap: 70")
}

func TestConfigCommand_InvalidConfig(t *testing.T) {
	path := writeFile(t, "routing.yaml", "gap: -1\n")

	_, _, err := run(t, "", "--config", path, "config")
	require.Error(t, err)
	assert.True(t, errors.Is(err, flowerrors.ErrInvalidConfig))
}

func TestDebugLogging(t *testing.T) {
	events := writeFile(t, "events.json", chainEvents)

	_, stderr, err := run(t, "", "--debug", "route", "-e", events)
	require.NoError(t, err)
	assert.Contains(t, stderr, "routing pass")

	_, stderr, err = run(t, "", "route", "-e", events)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "routing pass")
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := run(t, "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "GeometryEvent", schema["title"])
	assert.Contains(t, out, `"positionInCollection"`)
}
