package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/ui"
)

type testEnv struct {
	dir    string
	state  string
	config string
	extra  []string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{"COMBO_BACKEND", "COMBO_STATE", "COMBO_MAX_ATTEMPTS", "COMBO_THEME", "COMBO_LOG_LEVEL", "COMBO_DEBUG"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Cleanup(func() {
		ui.SetOutput(os.Stdout, os.Stderr)
		ui.SetTheme("classic")
	})
	return &testEnv{
		dir:    dir,
		state:  filepath.Join(dir, "state.json"),
		config: filepath.Join(dir, "config.yaml"),
	}
}

type result struct {
	code           int
	stdout, stderr string
}

func (e *testEnv) runIn(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	full := append(append([]string{}, args...),
		"--config", e.config, "--state", e.state, "--theme", "mono")
	full = append(full, e.extra...)
	code := Run(full, Options{Stdout: &out, Stderr: &errb, Stdin: stdin, Version: "test"})
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func (e *testEnv) run(t *testing.T, args ...string) result {
	t.Helper()
	return e.runIn(t, nil, args...)
}

// ok runs args and fails the test on a non-zero exit.
func (e *testEnv) ok(t *testing.T, args ...string) result {
	t.Helper()
	r := e.run(t, args...)
	require.Equal(t, 0, r.code, "combo %v\nstdout: %s\nstderr: %s", args, r.stdout, r.stderr)
	return r
}

// meal sets up Protein{Chicken, Tofu} and Side{Rice, Fries}.
func (e *testEnv) meal(t *testing.T) {
	t.Helper()
	e.ok(t, "list", "add", "Protein")
	e.ok(t, "item", "add", "Protein", "Chicken")
	e.ok(t, "item", "add", "Protein", "Tofu")
	e.ok(t, "list", "add", "Side")
	e.ok(t, "item", "add", "Side", "Rice")
	e.ok(t, "item", "add", "Side", "Fries")
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func TestListsAndItems(t *testing.T) {
	e := newEnv(t)
	e.meal(t)

	r := e.ok(t, "list", "ls")
	assert.Contains(t, r.stdout, "1. Protein (2 items)")
	assert.Contains(t, r.stdout, "2. Side (2 items)")

	lists := decode[[]model.List](t, e.ok(t, "list", "ls", "--format", "json").stdout)
	require.Len(t, lists, 2)
	assert.Equal(t, "Chicken", lists[0].Items[0].Value)

	e.ok(t, "item", "edit", "protein", "2", "Smoked", "Tofu")
	e.ok(t, "list", "rename", "2", "Sides")
	r = e.ok(t, "item", "ls", "Protein")
	assert.Contains(t, r.stdout, "2. Smoked Tofu")

	e.ok(t, "item", "rm", "Sides", "Rice")
	items := decode[[]model.Item](t, e.ok(t, "item", "ls", "Sides", "--format", "json").stdout)
	require.Len(t, items, 1)
	assert.Equal(t, "Fries", items[0].Value)
}

func TestValidationErrors(t *testing.T) {
	e := newEnv(t)
	e.meal(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown command", []string{"nope"}, "unknown command"},
		{"bad format", []string{"list", "ls", "--format", "xml"}, "invalid format"},
		{"missing list", []string{"item", "add", "Drink", "Water"}, "list not found"},
		{"missing item", []string{"item", "rm", "Protein", "Beef"}, "item not found"},
		{"blank name", []string{"list", "add", " "}, "name cannot be empty"},
		{"rule in one list", []string{"rule", "add", "Protein:Tofu", "Protein:Chicken"}, "at least 2 lists"},
		{"bad reference", []string{"rule", "add", "Tofu", "Side:Rice"}, "want <list>:<item>"},
		{"arity", []string{"item", "rm", "Protein"}, "usage: combo item rm"},
		{"bad attempts", []string{"draw", "--attempts", "0"}, "at least 1"},
		{"bad config key", []string{"config", "set", "draw.nope", "1"}, "unknown key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.run(t, tt.args...)
			assert.Equal(t, 2, r.code, r.stderr)
			assert.Contains(t, r.stderr, tt.want)
		})
	}
}

func TestDraw(t *testing.T) {
	e := newEnv(t)
	e.meal(t)

	c := decode[model.Combination](t, e.ok(t, "draw", "--format", "json", "--seed", "3").stdout)
	require.Len(t, c, 2)

	history := decode[[]model.Combination](t, e.ok(t, "history", "--format", "json").stdout)
	require.Len(t, history, 1)
	assert.Equal(t, c, history[0])

	r := e.ok(t, "draw")
	assert.Contains(t, r.stdout, "Protein -> ")
	assert.Contains(t, r.stdout, "Side -> ")

	e.ok(t, "draw", "--no-record")
	history = decode[[]model.Combination](t, e.ok(t, "history", "--format", "json").stdout)
	assert.Len(t, history, 2)
}

func TestDraw_HistoryKeepsFive(t *testing.T) {
	e := newEnv(t)
	e.meal(t)
	for range 6 {
		e.ok(t, "draw")
	}
	history := decode[[]model.Combination](t, e.ok(t, "history", "--format", "json").stdout)
	assert.Len(t, history, model.HistoryLimit)

	e.ok(t, "history", "--clear")
	assert.Contains(t, e.ok(t, "history").stdout, "no draws yet")
}

func TestDraw_RespectsRules(t *testing.T) {
	e := newEnv(t)
	e.meal(t)
	e.ok(t, "rule", "add", "Protein:Tofu", "Side:Fries")

	for range 20 {
		c := decode[model.Combination](t, e.ok(t, "draw", "--format", "json", "--no-history").stdout)
		values := []string{c[0].Value, c[1].Value}
		assert.NotEqual(t, []string{"Tofu", "Fries"}, values)
	}
}

func TestDraw_AllInvalid(t *testing.T) {
	e := newEnv(t)
	e.meal(t)
	e.ok(t, "rule", "add", "Protein:Chicken", "Protein:Tofu", "Side:Rice", "Side:Fries", "--name", "everything")

	r := e.run(t, "draw")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "no valid combination found within 20 attempts")
	assert.Contains(t, r.stderr, "ignoring the rules")

	history := decode[[]model.Combination](t, e.ok(t, "history", "--format", "json").stdout)
	assert.Empty(t, history)
}

func TestDraw_NothingToDraw(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "list", "add", "Empty")
	r := e.run(t, "draw")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "combo item add")
}

func TestRules(t *testing.T) {
	e := newEnv(t)
	e.meal(t)

	r := e.ok(t, "rule", "add", "Protein:Tofu", "Side:Fries")
	assert.Contains(t, r.stdout, `added rule "Protein: Tofu + Side: Fries"`)
	e.ok(t, "rule", "edit", "1", "--name", "no tofu and fries")

	rules := decode[[]ruleView](t, e.ok(t, "rule", "ls", "--format", "json").stdout)
	require.Len(t, rules, 1)
	assert.Equal(t, "no tofu and fries", rules[0].Name)
	assert.Equal(t, "Protein: Tofu + Side: Fries", rules[0].Display)

	r = e.run(t, "check", "Protein:Tofu", "Side:Fries")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "Tofu + Fries is forbidden by:")
	assert.Contains(t, r.stderr, "no tofu and fries")

	r = e.ok(t, "check", "Protein:Chicken", "Side:Fries")
	assert.Contains(t, r.stdout, "is allowed")

	// a partial combination never matches a two-list rule
	e.ok(t, "check", "Protein:Tofu")

	r = e.run(t, "check", "Protein:Tofu", "Protein:Chicken")
	assert.Equal(t, 2, r.code)

	e.ok(t, "rule", "edit", "no tofu and fries", "Protein:Chicken", "Side:Rice")
	e.ok(t, "check", "Protein:Tofu", "Side:Fries")

	e.ok(t, "rule", "rm", "1")
	assert.Contains(t, e.ok(t, "rule", "ls").stdout, "no invalid combinations")
}

func TestListRemovePrunesRules(t *testing.T) {
	e := newEnv(t)
	e.meal(t)
	e.ok(t, "rule", "add", "Protein:Tofu", "Side:Fries")

	r := e.ok(t, "list", "rm", "Side")
	assert.Contains(t, r.stdout, `deleted list "Side"`)

	rules := decode[[]ruleView](t, e.ok(t, "rule", "ls", "--format", "json").stdout)
	require.Len(t, rules, 1)
	assert.Len(t, rules[0].Items, 1)
}

func TestParseRef_ColonInName(t *testing.T) {
	st := model.NewState()
	l, err := st.AddList("a:b")
	require.NoError(t, err)
	id := l.ID
	_, err = st.AddItem(id, "c:d")
	require.NoError(t, err)

	sel, err := parseRef(st, "a:b:c:d")
	require.NoError(t, err)
	assert.Equal(t, "c:d", sel.Value)

	_, err = parseRef(st, "a:b:zzz")
	assert.ErrorIs(t, err, model.ErrItemNotFound)

	_, err = parseRef(st, "x:y")
	assert.ErrorIs(t, err, model.ErrListNotFound)
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	e.meal(t)
	e.ok(t, "rule", "add", "Protein:Tofu", "Side:Fries")

	v := decode[statsView](t, e.ok(t, "stats", "--format", "json").stdout)
	assert.Equal(t, statsView{
		Lists: 2, Items: 4, Rules: 1, Counted: true,
		Total: 4, Forbidden: 1, Allowed: 3,
	}, v)

	r := e.ok(t, "stats")
	assert.Contains(t, r.stdout, "Allowed  3 of 4")
}

func TestExportImport(t *testing.T) {
	src := newEnv(t)
	src.meal(t)
	src.ok(t, "rule", "add", "Protein:Tofu", "Side:Fries")
	src.ok(t, "draw")

	dump := src.ok(t, "export").stdout
	assert.True(t, strings.HasPrefix(dump, "{\n  \"root\": {"), dump)

	file := filepath.Join(src.dir, "dump.json")
	src.ok(t, "export", file)

	dst := newEnv(t)
	dst.ok(t, "import", file)
	assert.Equal(t, dump, dst.ok(t, "export").stdout)

	viaStdin := newEnv(t)
	r := viaStdin.runIn(t, strings.NewReader(dump), "import", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "imported 2 lists, 1 rules")

	bad := filepath.Join(src.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	assert.Equal(t, 2, dst.run(t, "import", bad).code)
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t)

	e.ok(t, "config", "set", "draw.max_attempts", "50")
	assert.Equal(t, "50\n", e.ok(t, "config", "get", "draw.max_attempts").stdout)

	raw, err := os.ReadFile(e.config)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "max_attempts: 50")

	r := e.ok(t, "config", "ls")
	assert.Contains(t, r.stdout, "draw.max_attempts = 50")
	assert.Contains(t, r.stdout, "storage.backend = json")

	r = e.ok(t, "config", "path")
	assert.Equal(t, e.config+"\n"+e.state+"\n", r.stdout)

	assert.Equal(t, 2, e.run(t, "config", "set", "ui.theme", "pink").code)
}

func TestSQLiteBackend(t *testing.T) {
	e := newEnv(t)
	e.state = filepath.Join(e.dir, "state.db")
	e.extra = []string{"--backend", "sqlite"}
	e.meal(t)
	e.ok(t, "draw")

	lists := decode[[]model.List](t, e.ok(t, "list", "ls", "--format", "json").stdout)
	assert.Len(t, lists, 2)
	history := decode[[]model.Combination](t, e.ok(t, "history", "--format", "json").stdout)
	assert.Len(t, history, 1)
}
