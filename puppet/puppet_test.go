package puppet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/host"
	"github.com/zero-day-ai/facts/plugin"
)

const (
	uidCommand = "/usr/bin/id -u puppet 2>/dev/null"
	gidCommand = "/usr/bin/id -g puppet 2>/dev/null"
)

// newRun installs the puppet plugin, plus any extra definitions, and starts a run.
func newRun(t *testing.T, deps Deps, opts Options, attrs host.Attributes, extra ...*fact.Definition) *fact.Run {
	t.Helper()
	p, err := New(deps, opts)
	require.NoError(t, err)

	reg := fact.NewRegistry()
	require.NoError(t, plugin.Install(reg, p))
	for _, def := range extra {
		require.NoError(t, reg.Register(def))
	}
	return reg.NewRun(attrs)
}

func resolve(t *testing.T, run *fact.Run, name string) fact.Value {
	t.Helper()
	v, err := run.Resolve(context.Background(), name)
	require.NoError(t, err)
	return v
}

func puppetVersion(t *testing.T, v fact.Value) *fact.Definition {
	t.Helper()
	def, err := fact.Static(FactPuppetVersion, v)
	require.NoError(t, err)
	return def
}

func TestNew_RegistersAllFacts(t *testing.T) {
	p, err := New(Deps{}, Options{})
	require.NoError(t, err)

	d := plugin.ToDescriptor(p)
	assert.Equal(t, "puppet", d.Name)
	assert.Equal(t, Version, d.Version)

	var names []string
	for _, f := range d.Facts {
		names = append(names, f.Name)
		if f.Name == FactLocalCertSignatures {
			assert.Empty(t, f.Confines)
		} else {
			assert.Equal(t, []string{"kernel == Linux"}, f.Confines, f.Name)
		}
	}
	assert.ElementsMatch(t, []string{
		FactLocalCertSignatures, FactAgentInstalled, FactAgentMajorVersion,
		FactServerVersion, FactServerMajorVersion, FactUserUID, FactUserGID,
	}, names)
}

func TestAgentInstalled(t *testing.T) {
	present := fakeFS{files: map[string]string{DefaultAgentBinary: "#!"}}
	run := newRun(t, Deps{Runner: newFakeRunner(), Files: present}, Options{}, linux)
	assert.True(t, resolve(t, run, FactAgentInstalled).Equal(fact.Bool(true)))

	run = newRun(t, Deps{Runner: newFakeRunner(), Files: fakeFS{}}, Options{}, linux)
	v := resolve(t, run, FactAgentInstalled)
	assert.True(t, v.Available(), "a missing binary is false, not unavailable")
	assert.True(t, v.Equal(fact.Bool(false)))
}

func TestAgentInstalled_CustomPath(t *testing.T) {
	files := fakeFS{files: map[string]string{"/usr/bin/puppet": "#!"}}
	run := newRun(t, Deps{Runner: newFakeRunner(), Files: files}, Options{AgentBinary: "/usr/bin/puppet"}, linux)
	assert.True(t, resolve(t, run, FactAgentInstalled).Equal(fact.Bool(true)))
}

func TestAgentMajorVersion(t *testing.T) {
	tests := []struct {
		name     string
		upstream *fact.Definition
		want     fact.Value
	}{
		{name: "dotted version", upstream: puppetVersion(t, fact.String("7.2.1")), want: fact.String("7")},
		{name: "two digit major", upstream: puppetVersion(t, fact.String("10.0.3")), want: fact.String("10")},
		{name: "upstream absent", upstream: puppetVersion(t, fact.Unavailable()), want: fact.Unavailable()},
		{name: "not a dotted version", upstream: puppetVersion(t, fact.String("latest")), want: fact.Unavailable()},
		{name: "upstream not registered", upstream: nil, want: fact.Unavailable()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var extra []*fact.Definition
			if tt.upstream != nil {
				extra = append(extra, tt.upstream)
			}
			run := newRun(t, Deps{Runner: newFakeRunner(), Files: fakeFS{}}, Options{}, linux, extra...)
			got := resolve(t, run, FactAgentMajorVersion)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestServerVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		want   fact.Value
	}{
		{name: "version line", output: "puppetserver version: 6.14.0\n", want: fact.String("6.14.0")},
		{name: "version after warnings", output: "WARNING: low entropy\npuppetserver version: 7.9.2 \n", want: fact.String("7.9.2")},
		{name: "extra text after version", output: "puppetserver version: 6.14.0 (build 42)", want: fact.String("6.14.0")},
		{name: "empty output", output: "", want: fact.Unavailable()},
		{name: "no matching line", output: "bash: puppetserver: command not found\n", want: fact.Unavailable()},
		{name: "prefix without version", output: "puppetserver version:   \n", want: fact.Unavailable()},
		{name: "no space after prefix", output: "puppetserver version:6.14.0\n", want: fact.Unavailable()},
		{name: "command failed", err: errors.New("exit status 127"), want: fact.Unavailable()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner().on(DefaultServerVersionCommand, tt.output, tt.err)
			run := newRun(t, Deps{Runner: runner, Files: fakeFS{}}, Options{}, linux)
			got := resolve(t, run, FactServerVersion)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestServerMajorVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   fact.Value
	}{
		{name: "semantic version", output: "puppetserver version: 6.14.0", want: fact.String("6")},
		{name: "non-numeric passes through", output: "puppetserver version: latest", want: fact.String("latest")},
		{name: "four components pass through", output: "puppetserver version: 6.14.0.1", want: fact.String("6.14.0.1")},
		{name: "upstream unavailable", output: "", want: fact.Unavailable()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner().on(DefaultServerVersionCommand, tt.output, nil)
			run := newRun(t, Deps{Runner: runner, Files: fakeFS{}}, Options{}, linux)
			got := resolve(t, run, FactServerMajorVersion)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestServerVersion_MemoizedAcrossDependents(t *testing.T) {
	runner := newFakeRunner().on(DefaultServerVersionCommand, "puppetserver version: 6.14.0", nil)
	run := newRun(t, Deps{Runner: runner, Files: fakeFS{}}, Options{}, linux)

	first := resolve(t, run, FactServerVersion)
	second := resolve(t, run, FactServerVersion)
	major := resolve(t, run, FactServerMajorVersion)

	assert.True(t, first.Equal(second))
	assert.True(t, major.Equal(fact.String("6")))
	assert.Equal(t, 1, runner.count(DefaultServerVersionCommand))
}

func TestUserIDs(t *testing.T) {
	tests := []struct {
		name    string
		command string
		fact    string
		output  string
		err     error
		want    fact.Value
	}{
		{name: "uid", command: uidCommand, fact: FactUserUID, output: "52", want: fact.String("52")},
		{name: "gid", command: gidCommand, fact: FactUserGID, output: "52", want: fact.String("52")},
		{name: "noise before id", command: uidCommand, fact: FactUserUID, output: "warning\n999", want: fact.String("999")},
		{name: "no such user", command: uidCommand, fact: FactUserUID, output: "", want: fact.Unavailable()},
		{name: "non numeric", command: gidCommand, fact: FactUserGID, output: "puppet", want: fact.Unavailable()},
		{name: "command failed", command: uidCommand, fact: FactUserUID, err: errors.New("not found"), want: fact.Unavailable()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner().on(tt.command, tt.output, tt.err)
			run := newRun(t, Deps{Runner: runner, Files: fakeFS{}}, Options{}, linux)
			got := resolve(t, run, tt.fact)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, 1, runner.count(tt.command))
		})
	}
}

func TestUserIDs_CustomUser(t *testing.T) {
	runner := newFakeRunner().on("/bin/id -u pe-puppet 2>/dev/null", "998", nil)
	run := newRun(t, Deps{Runner: runner, Files: fakeFS{}}, Options{User: "pe-puppet", IDCommand: "/bin/id"}, linux)
	assert.True(t, resolve(t, run, FactUserUID).Equal(fact.String("998")))
}

func TestLinuxFactsConfined(t *testing.T) {
	runner := newFakeRunner().
		on(DefaultServerVersionCommand, "puppetserver version: 6.14.0", nil).
		on(uidCommand, "52", nil).
		on(gidCommand, "52", nil)
	files := fakeFS{files: map[string]string{DefaultAgentBinary: "#!"}}
	run := newRun(t, Deps{Runner: runner, Files: files}, Options{}, darwin, puppetVersion(t, fact.String("7.2.1")))

	for _, name := range []string{
		FactAgentInstalled, FactAgentMajorVersion, FactServerVersion,
		FactServerMajorVersion, FactUserUID, FactUserGID,
	} {
		assert.False(t, resolve(t, run, name).Available(), name)
	}
	assert.Equal(t, 0, runner.total(), "confined facts must not run commands")
}

func TestLocalCertSignatures(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	write("a.crt", "same")
	b := write("b.crt", "same")
	write("puppet-ca.crt", "ca")
	c := write(filepath.Join("nested", "c.crt"), "other")

	run := newRun(t, Deps{Runner: newFakeRunner()}, Options{TrustDir: dir}, darwin)
	got, ok := resolve(t, run, FactLocalCertSignatures).AsMapping()
	require.True(t, ok)

	want := map[string]string{
		host.MD5{}.Digest([]byte("same")):  b,
		host.MD5{}.Digest([]byte("other")): c,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("signatures mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalCertSignatures_SkipsUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read every directory")
	}
	dir := t.TempDir()
	a := filepath.Join(dir, "a.crt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	private := filepath.Join(dir, "private")
	require.NoError(t, os.Mkdir(private, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(private, "b.crt"), []byte("b"), 0o644))
	require.NoError(t, os.Chmod(private, 0o000))
	t.Cleanup(func() { _ = os.Chmod(private, 0o755) })

	run := newRun(t, Deps{Runner: newFakeRunner()}, Options{TrustDir: dir}, linux)
	got, ok := resolve(t, run, FactLocalCertSignatures).AsMapping()
	require.True(t, ok)
	assert.Equal(t, map[string]string{host.MD5{}.Digest([]byte("a")): a}, got)
}

func TestLocalCertSignatures_Unavailable(t *testing.T) {
	tests := []struct {
		name  string
		files fakeFS
	}{
		{name: "missing directory", files: fakeFS{}},
		{name: "only the puppet ca", files: fakeFS{files: map[string]string{
			DefaultTrustDir + "/puppet-ca.crt": "ca",
		}}},
		{name: "unreadable certificate", files: fakeFS{
			files:   map[string]string{DefaultTrustDir + "/a.crt": "a"},
			readErr: map[string]error{DefaultTrustDir + "/a.crt": os.ErrPermission},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newRun(t, Deps{Runner: newFakeRunner(), Files: tt.files}, Options{}, linux)
			assert.False(t, resolve(t, run, FactLocalCertSignatures).Available())
		})
	}
}

func TestVersionFact(t *testing.T) {
	command := DefaultAgentBinary + " --version 2>/dev/null"

	def, err := VersionFact(Deps{Runner: newFakeRunner().on(command, "7.2.1\n", nil), Files: fakeFS{}}, Options{})
	require.NoError(t, err)
	run := newRun(t, Deps{Runner: newFakeRunner(), Files: fakeFS{}}, Options{}, linux, def)

	assert.True(t, resolve(t, run, FactPuppetVersion).Equal(fact.String("7.2.1")))
	assert.True(t, resolve(t, run, FactAgentMajorVersion).Equal(fact.String("7")))

	missing, err := VersionFact(Deps{Runner: newFakeRunner(), Files: fakeFS{}}, Options{})
	require.NoError(t, err)
	run = newRun(t, Deps{Runner: newFakeRunner(), Files: fakeFS{}}, Options{}, linux, missing)
	assert.False(t, resolve(t, run, FactPuppetVersion).Available())
	assert.False(t, resolve(t, run, FactAgentMajorVersion).Available())
}
