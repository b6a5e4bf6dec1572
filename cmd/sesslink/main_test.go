package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/sesslink/pkg/config"
)

const testMarker = ".sesslink-project"

// isolate keeps the user's configuration and environment out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvOneToOne, "")
	t.Setenv(config.EnvWorkspace, "")
	return home
}

// writeConfig writes a config file using a private project marker.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sesslink.yaml")
	content := "context:\n  project_markers: [" + testMarker + "]\n" +
		"logging:\n  level: error\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// workspace creates root/api (a project with an internal dir) and root/web.
func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "api", "internal"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "web"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "api", testMarker), nil, 0600))
	return root
}

// execute runs the CLI with args and the given input.
func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(input), &out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// script joins shell lines.
func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// assertInOrder checks that parts occur in out in the given order.
func assertInOrder(t *testing.T, out string, parts ...string) {
	t.Helper()
	rest := out
	for _, part := range parts {
		i := strings.Index(rest, part)
		if i < 0 {
			t.Fatalf("output missing %q after previous parts\nfull output:\n%s", part, out)
		}
		rest = rest[i+len(part):]
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "sesslink "+version+"\n", out)
}

func TestShellTiers(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "display:\n  format: simple\n")
	root := workspace(t)

	out, err := execute(t, script(
		"cd "+filepath.Join(root, "api"),
		"start",
		"cd "+filepath.Join(root, "web"),
		"start",
		"linked",
		"cd "+filepath.Join(root, "api", "internal"),
		"linked",
		"friendly",
		"sessions",
		"current",
		"exit",
	), "shell", "--config", cfg)
	require.NoError(t, err)

	want := fmt.Sprintf("sesslink %s, type \"help\" for commands\n", version) +
		"sesslink> " + filepath.Join(root, "api") + "\n" +
		"sesslink> started api\n" +
		"sesslink> " + filepath.Join(root, "web") + "\n" +
		"sesslink> started web\n" +
		"sesslink> web\n" +
		"sesslink> " + filepath.Join(root, "api", "internal") + "\n" +
		"sesslink> api\n" +
		"sesslink> api\n" +
		"sesslink> api\nweb\n" +
		"sesslink> api\n" +
		"sesslink> "
	assert.Equal(t, want, out)
}

func TestShellPromptsAndLinks(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "display:\n  format: simple\n")
	root := workspace(t)
	web := filepath.Join(root, "web")

	out, err := execute(t, script(
		"cd "+web,
		"ensure",
		"ensure --new",
		"1",
		"start",
		"linked",
		"link directory",
		"web",
		"linked",
		"unlink",
		"",
		"unlink",
		"1",
		"linked",
		"unlink",
		"exit",
	), "shell", "--config", cfg)
	require.NoError(t, err)

	assertInOrder(t, out,
		"sesslink> error: no sessions for process in current context\n",
		"  1) *new*\n", "Session: ", "using web\n",
		"started web<1>\n",
		"sesslink> web<1>\n",
		"  1) web<1>\n  2) web\n  3) *new*\n", "Link which session? ",
		"process/web -> directory "+web+"\n",
		"sesslink> web\n",
		"  1) directory "+web+" -> web\n", "cancelled\n",
		"removed process/web -> directory "+web+"\n",
		"sesslink> sesslink> error: no associations found",
	)
}

func TestShellRestartKeepsLinks(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "display:\n  format: simple\n")
	root := workspace(t)
	api := filepath.Join(root, "api")

	out, err := execute(t, script(
		"cd "+api,
		"start",
		"restart",
		"links",
		"kill api",
		"sessions",
		"kill",
		"exit",
	), "shell", "--config", cfg)
	require.NoError(t, err)

	assertInOrder(t, out,
		"started api\n",
		"restarted api\n",
		"process/api -> project "+api+"\n",
		"killed api\n",
		"sesslink> sesslink> error: no sessions",
	)
}

func TestShellContextCommands(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "display:\n  format: simple\n")
	root := workspace(t)
	api := filepath.Join(root, "api")

	out, err := execute(t, script(
		"cd "+filepath.Join(api, "internal"),
		"open main.go",
		"context",
		"open",
		"pwd",
		"cd missing",
		"projects "+root,
		"exit",
	), "shell", "--config", cfg)
	require.NoError(t, err)

	doc := filepath.Join(api, "internal", "main.go")
	assertInOrder(t, out,
		"document "+doc+"\n",
		fmt.Sprintf("%-10s %s\n", "document", doc),
		fmt.Sprintf("%-10s %s\n", "directory", filepath.Join(api, "internal")),
		fmt.Sprintf("%-10s %s\n", "project", api),
		"no active document\n",
		"sesslink> "+filepath.Join(api, "internal")+"\n",
		"sesslink> error: ",
		api+" ("+testMarker+")\n",
	)
}

func TestShellHelpAndUnknown(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "")

	out, err := execute(t, script("help", "frobnicate"), "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Commands:\n")
	assert.Contains(t, out, "  ensure [--new] [--all]")
	assert.Contains(t, out, "  link [type]")
	assert.Contains(t, out, `unknown command "frobnicate"`)
}

func TestShellTableOutput(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "")
	root := workspace(t)

	out, err := execute(t, script("cd "+filepath.Join(root, "api"), "start", "info", "exit"), "shell", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Session Info (process)")
	assert.Contains(t, out, "no process in "+filepath.Join(root, "api"))
}

func TestShellQuitKillsProcesses(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	isolate(t)
	cfg := writeConfig(t, "display:\n  format: simple\nsystems:\n  process:\n    command: sleep\n    args: [\"30\"]\n")
	root := workspace(t)

	out, err := execute(t, script(
		"cd "+filepath.Join(root, "web"),
		"start",
		"start",
		"quit",
		"sessions",
		"exit",
	), "shell", "--config", cfg)
	require.NoError(t, err)

	assertInOrder(t, out,
		"started web\n",
		"started web<1>\n",
		"all sessions killed\n",
		"sesslink> sesslink> ",
	)
}

func TestShellWithTracker(t *testing.T) {
	isolate(t)
	root := workspace(t)
	cfg := writeConfig(t, fmt.Sprintf("tracker:\n  enabled: true\n  workspace_dirs: [%q]\n", root))

	out, err := execute(t, script("pwd"), "shell", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "sesslink> ")
}

func TestShellFlagErrors(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "")

	_, err := execute(t, "", "shell", "--config", cfg, "--format", "xml")
	assert.ErrorIs(t, err, config.ErrInvalidDisplayFormat)

	_, err = execute(t, "", "shell", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "conf", "sesslink.yaml")

	out, err := execute(t, "", "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, "", "config", "init", "--path", path)
	assert.Error(t, err)

	_, err = execute(t, "", "config", "init", "--path", path, "--force")
	assert.NoError(t, err)

	t.Run("show yaml", func(t *testing.T) {
		out, err := execute(t, "", "config", "show", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "# Source: "+path)
		assert.Contains(t, out, "one_to_one_types:")
	})

	t.Run("show json", func(t *testing.T) {
		out, err := execute(t, "", "--log-level", "debug", "config", "show", "--output", "json")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "debug", got["Logging"].(map[string]any)["Level"])
	})

	t.Run("path", func(t *testing.T) {
		out, err := execute(t, "", "config", "path")
		require.NoError(t, err)
		assert.Contains(t, out, filepath.Join(home, ".config", "sesslink", "config.yaml")+" [not found]")
		assert.Contains(t, out, "Active configuration: defaults (no config file found)")
	})
}
