package control

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/testutil/fakerunner"
	"github.com/trly/unitctl/internal/unit"
	"github.com/trly/unitctl/internal/validate"
)

func TestJournal(t *testing.T) {
	t.Run("returns journal text", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("journalctl", []string{"-b", "-r", "-u", "sshd.service"}, []byte("May 18 sshd[1]: Server listening\n"))
		c := newTestClient(nil, runner, Options{})

		assert.Equal(t, "May 18 sshd[1]: Server listening\n", c.Journal(context.Background(), "sshd.service", unit.ScopeSystem))
	})

	t.Run("user scope", func(t *testing.T) {
		runner := fakerunner.New()
		c := newTestClient(nil, runner, Options{})
		_, _ = c.ReadJournal(context.Background(), "pipewire.service", unit.ScopeUser)
		assert.Equal(t, "journalctl --user -b -r -u pipewire.service", runner.GetCalls()[0].String())
	})

	t.Run("empty journal", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("journalctl", []string{"-b", "-r", "-u", "a.service"}, []byte("-- No entries --\n"))
		c := newTestClient(nil, runner, Options{})

		_, err := c.ReadJournal(context.Background(), "a.service", unit.ScopeSystem)
		assert.ErrorIs(t, err, ErrEmptyJournal)
		assert.Contains(t, c.Journal(context.Background(), "a.service", unit.ScopeSystem), JournalPlaceholder)
	})

	t.Run("missing journalctl", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetError("journalctl", []string{"-b", "-r", "-u", "a.service"}, &exec.Error{Name: "journalctl", Err: exec.ErrNotFound})
		c := newTestClient(nil, runner, Options{})

		_, err := c.ReadJournal(context.Background(), "a.service", unit.ScopeSystem)
		assert.ErrorIs(t, err, systemd.ErrBinaryNotFound)

		got := c.Journal(context.Background(), "a.service", unit.ScopeSystem)
		assert.Contains(t, got, JournalPlaceholder)
	})
}

const sshdDeps = `sshd.service
● ├─system.slice
● └─sysinit.target
●   └─dev-hugepages.mount
`

func TestDependencies(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("systemctl", []string{"list-dependencies", "--", "sshd.service"}, []byte(sshdDeps))
	runner.SetError("systemctl", []string{"list-dependencies", "--", "gone.service"}, errors.New("exit status 1"))
	c := newTestClient(nil, runner, Options{})

	assert.Equal(t, "system.slice\nsysinit.target\n└─dev-hugepages.mount\n", c.Dependencies(context.Background(), "sshd.service", unit.ScopeSystem))
	assert.Equal(t, "gone.service", c.Dependencies(context.Background(), "gone.service", unit.ScopeSystem))

	_, err := c.ReadDependencies(context.Background(), "gone.service", unit.ScopeSystem)
	assert.True(t, systemd.IsCommandError(err))

	tree, err := c.DependencyTree(context.Background(), "sshd.service", unit.ScopeSystem)
	require.NoError(t, err)
	children, err := tree.Children("sysinit.target")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-hugepages.mount"}, children)
}

func TestProperties(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("systemctl", []string{"show", "--no-pager", "--user", "--", "a.service"},
		[]byte("Type=simple\nDescription=A\nExecStart={ path=/bin/a ; argv[]=/bin/a }\nEmpty=\nActiveState=active\n"))
	c := newTestClient(nil, runner, Options{})

	var got []string
	var indexes []int
	err := c.Properties(context.Background(), "a.service", unit.ScopeUser, func(i int, key, value string) {
		indexes = append(indexes, i)
		got = append(got, key+"="+value)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, indexes)
	assert.Equal(t, []string{
		"ActiveState=active",
		"Description=A",
		"ExecStart={ path=/bin/a ; argv[]=/bin/a }",
		"Type=simple",
	}, got)
}

func TestProperties_Error(t *testing.T) {
	runner := fakerunner.New()
	runner.SetError("systemctl", []string{"show", "--no-pager", "--", "a.service"}, errors.New("exit status 1"))
	c := newTestClient(nil, runner, Options{})

	called := false
	err := c.Properties(context.Background(), "a.service", unit.ScopeSystem, func(int, string, string) { called = true })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestCat(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("systemctl", []string{"cat", "--", "sshd.service"}, []byte(`# /usr/lib/systemd/system/sshd.service
[Unit]
Description=OpenSSH Daemon
Wants=sshdgenkeys.service

[Service]
ExecStart=/usr/bin/sshd -D

# /etc/systemd/system/sshd.service.d/override.conf
[Service]
Restart=always
`))
	c := newTestClient(nil, runner, Options{})

	f, err := c.Cat(context.Background(), "sshd.service", unit.ScopeSystem)
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/systemd/system/sshd.service", f.Path)
	assert.Equal(t, "OpenSSH Daemon", f.Description)
	assert.Contains(t, f.Content, "Restart=always")
}

func TestParseCat_Malformed(t *testing.T) {
	for _, out := range []string{"", "no newline", "# \nbody", "[Unit]\nDescription=x\n"} {
		_, err := ParseCat(out)
		assert.ErrorIs(t, err, unit.ErrParse, out)
	}
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "Foo", Description("[Unit]\nDescription=Foo\n"))
	assert.Equal(t, "Bar", Description("garbage [[\nDescription=Bar"))
	assert.Empty(t, Description("[Service]\nType=oneshot\n"))
}

func TestSaveUnitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.service")
	require.NoError(t, os.WriteFile(path, []byte("[Unit]\nDescription=old\n"), 0o600))

	reloaded := 0
	conn := &systemd.MockConnection{ReloadFunc: func(context.Context) error {
		reloaded++
		return nil
	}}
	c := newTestClient(conn, nil, Options{})

	changed, err := c.SaveUnitFile(context.Background(), path, "[Unit]\nDescription=new", unit.ScopeUser)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[Unit]\nDescription=new\n", string(data))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	assert.Equal(t, 1, reloaded)
}

func TestSaveUnitFile_Unchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.service")
	require.NoError(t, os.WriteFile(path, []byte("[Unit]\nDescription=same\n"), 0o600))
	before, err := os.Stat(path)
	require.NoError(t, err)

	reloaded := 0
	conn := &systemd.MockConnection{ReloadFunc: func(context.Context) error {
		reloaded++
		return nil
	}}
	c := newTestClient(conn, nil, Options{})

	changed, err := c.SaveUnitFile(context.Background(), path, "[Unit]\nDescription=same", unit.ScopeSystem)
	require.NoError(t, err)
	assert.False(t, changed)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after))
	assert.Equal(t, 1, reloaded)
}

func TestSaveUnitFile_Rejects(t *testing.T) {
	conn := &systemd.MockConnection{}
	c := newTestClient(conn, nil, Options{})

	_, err := c.SaveUnitFile(context.Background(), "relative.service", "[Unit]\n", unit.ScopeSystem)
	assert.ErrorIs(t, err, validate.ErrUnsafePath)
	_, err = c.SaveUnitFile(context.Background(), filepath.Join(t.TempDir(), "notes.txt"), "[Unit]\n", unit.ScopeSystem)
	assert.ErrorIs(t, err, unit.ErrUnrecognizedExtension)
	assert.Zero(t, conn.Closed)
}

func TestParseProperties(t *testing.T) {
	props := ParseProperties("B=2\nA=1\nnoequals\nC=\n")
	assert.Equal(t, []Property{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}}, props)
}

func TestIsActive(t *testing.T) {
	const running = "● sshd.service - OpenSSH Daemon\n     Loaded: loaded (/usr/lib/systemd/system/sshd.service; enabled)\n     Active: active (running) since Mon 2024-05-20 09:12:01 UTC\n"
	const dead = "○ cups.service - CUPS\n     Loaded: loaded\n     Active: inactive (dead)\n"

	tests := []struct {
		name   string
		unit   string
		scope  unit.Scope
		setup  func(r *fakerunner.Runner)
		want   bool
		called bool
	}{
		{
			name:  "running unit",
			unit:  "sshd.service",
			scope: unit.ScopeSystem,
			setup: func(r *fakerunner.Runner) {
				r.SetOutput("systemctl", []string{"status", "--", "sshd.service"}, []byte(running))
			},
			want:   true,
			called: true,
		},
		{
			name:  "inactive unit exits non-zero",
			unit:  "cups.service",
			scope: unit.ScopeUser,
			setup: func(r *fakerunner.Runner) {
				r.SetResult("systemctl", []string{"--user", "status", "--", "cups.service"}, []byte(dead), errors.New("exit status 3"))
			},
			called: true,
		},
		{
			name:  "systemctl cannot be launched",
			unit:  "sshd.service",
			scope: unit.ScopeSystem,
			setup: func(r *fakerunner.Runner) {
				r.SetError("systemctl", []string{"status", "--", "sshd.service"}, &exec.Error{Name: "systemctl", Err: exec.ErrNotFound})
			},
			called: true,
		},
		{
			name:  "invalid name is never queried",
			unit:  "bad name.service",
			scope: unit.ScopeSystem,
			setup: func(*fakerunner.Runner) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := fakerunner.New()
			tt.setup(runner)
			c := newTestClient(nil, runner, Options{})

			assert.Equal(t, tt.want, c.IsActive(context.Background(), tt.unit, tt.scope))
			assert.Equal(t, tt.called, len(runner.GetCalls()) > 0)
		})
	}
}

func TestCat_DashPrefixedUnit(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("systemctl", []string{"cat", "--", "-.mount"}, []byte("# /run/systemd/generator/-.mount\n[Unit]\nDescription=Root Mount\n"))
	c := newTestClient(nil, runner, Options{})

	uf, err := c.Cat(context.Background(), "-.mount", unit.ScopeSystem)
	require.NoError(t, err)
	assert.Equal(t, "/run/systemd/generator/-.mount", uf.Path)
	assert.Equal(t, []string{"cat", "--", "-.mount"}, runner.GetCalls()[0].Args)
}
