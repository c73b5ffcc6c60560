package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	dbPath string
	school string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	school := filepath.Join(dir, "school.yaml")
	require.NoError(t, os.WriteFile(school, []byte("id: 1\nname: Springfield Elementary\n"), 0o644))
	return &cli{t: t, dbPath: filepath.Join(dir, "data", "rollbook.db"), school: school}
}

// run executes one rollbook invocation and returns its stdout.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	viper.Reset()
	c.t.Cleanup(viper.Reset)

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--db", c.dbPath, "--school", c.school, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "rollbook %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	out := newCLI(t).mustRun("version")
	assert.Contains(t, out, "rollbook dev (schema 1)")
}

func TestInit(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("init")

	assert.Contains(t, out, "Schema:   version 1")
	assert.Contains(t, out, "accounts")
	assert.Contains(t, out, "students")
	assert.FileExists(t, c.dbPath)

	out = c.mustRun("init")
	assert.Contains(t, out, "Schema:   version 1")
}

func TestStudentCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("student", "add", "--first", "Ada", "--last", "Lovelace", "--gpa", "4")
	assert.Contains(t, out, "Added student 1: Ada Lovelace")
	c.mustRun("student", "add", "--first", "Alan", "--last", "Turing", "--gpa", "3.5")

	out = c.mustRun("student", "list")
	assert.Less(t, strings.Index(out, "Lovelace"), strings.Index(out, "Turing"))

	out = c.mustRun("student", "get", "1")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "4.00")

	out = c.mustRun("student", "update", "1", "--gpa", "3.9")
	assert.Contains(t, out, "Ada Lovelace (3.90)")

	c.mustRun("student", "rm", "1")
	c.mustRun("student", "rm", "1")

	_, err := c.run("student", "get", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStudentAddRejectsEmptyName(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("student", "add", "--last", "Lovelace")
	require.Error(t, err)
}

func TestStudentGetInvalidID(t *testing.T) {
	_, err := newCLI(t).run("student", "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestAccountCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("account", "add", "--user", "admin", "--pass", "secret")
	assert.Contains(t, out, "Added account 1: admin")

	_, err := c.run("account", "add", "--user", "admin", "--pass", "other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taken")

	out = c.mustRun("account", "list")
	assert.Contains(t, out, "admin")
	assert.NotContains(t, out, "secret")

	c.mustRun("account", "rm", "admin")
	out = c.mustRun("account", "list")
	assert.Contains(t, out, "No accounts.")
}

func TestSchool(t *testing.T) {
	out := newCLI(t).mustRun("school")
	assert.Contains(t, out, "Springfield Elementary")
}

func TestReport(t *testing.T) {
	c := newCLI(t)
	c.mustRun("student", "add", "--first", "Ada", "--last", "Lovelace", "--gpa", "4")

	out := c.mustRun("report")
	assert.Contains(t, out, "# Springfield Elementary roster")
	assert.Contains(t, out, "| 1 | Lovelace | Ada | 4.00 |")

	htmlPath := filepath.Join(t.TempDir(), "roster.html")
	c.mustRun("report", "--html", "--out", htmlPath)
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<td>Lovelace</td>")
}

func TestInvalidConfig(t *testing.T) {
	_, err := newCLI(t).run("--log-format", "xml", "student", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
}
