package puppet

import (
	"time"

	"github.com/zero-day-ai/facts/exec"
	"github.com/zero-day-ai/facts/host"
)

// Fact names.
const (
	FactLocalCertSignatures = "local_cert_signatures"
	FactAgentInstalled      = "puppet_agent_installed"
	FactAgentMajorVersion   = "puppet_agent_major_version"
	FactServerVersion       = "puppet_server_version"
	FactServerMajorVersion  = "puppet_server_major_version"
	FactUserUID             = "puppet_user_uid"
	FactUserGID             = "puppet_user_gid"

	// FactPuppetVersion is owned by the collector, not by this plugin.
	// See VersionFact.
	FactPuppetVersion = "puppetversion"
)

// Defaults for Options.
const (
	DefaultTrustDir             = "/usr/local/share/ca-certificates"
	DefaultExcludedSuffix       = "puppet-ca.crt"
	DefaultAgentBinary          = "/opt/puppetlabs/puppet/bin/puppet"
	DefaultServerVersionCommand = "puppetserver --version 2>&1"
	DefaultUser                 = "puppet"
	DefaultIDCommand            = "/usr/bin/id"
	DefaultCommandTimeout       = 30 * time.Second
)

// Options locate the files and commands the facts inspect. Empty fields
// take their Default* value.
type Options struct {
	TrustDir             string
	ExcludedSuffix       string
	AgentBinary          string
	ServerVersionCommand string
	User                 string
	IDCommand            string
}

// DefaultOptions returns the standard Puppet locations.
func DefaultOptions() Options {
	return Options{
		TrustDir:             DefaultTrustDir,
		ExcludedSuffix:       DefaultExcludedSuffix,
		AgentBinary:          DefaultAgentBinary,
		ServerVersionCommand: DefaultServerVersionCommand,
		User:                 DefaultUser,
		IDCommand:            DefaultIDCommand,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TrustDir == "" {
		o.TrustDir = d.TrustDir
	}
	if o.ExcludedSuffix == "" {
		o.ExcludedSuffix = d.ExcludedSuffix
	}
	if o.AgentBinary == "" {
		o.AgentBinary = d.AgentBinary
	}
	if o.ServerVersionCommand == "" {
		o.ServerVersionCommand = d.ServerVersionCommand
	}
	if o.User == "" {
		o.User = d.User
	}
	if o.IDCommand == "" {
		o.IDCommand = d.IDCommand
	}
	return o
}

// Deps are the collaborators the facts use. Nil fields fall back to the
// host implementations.
type Deps struct {
	Runner exec.Runner
	Files  host.FileSystem
	Hasher host.Hasher
}

func (d Deps) withDefaults() Deps {
	if d.Runner == nil {
		d.Runner = exec.NewShellRunner(DefaultCommandTimeout)
	}
	if d.Files == nil {
		d.Files = host.OS{}
	}
	if d.Hasher == nil {
		d.Hasher = host.MD5{}
	}
	return d
}
