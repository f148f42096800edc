// Package puppet provides the host facts a Puppet inventory collects about
// the local agent, server and trust store:
//
//   - local_cert_signatures: MD5 digest -> path of every certificate in the
//     local trust directory, excluding the Puppet CA
//   - puppet_agent_installed: whether the agent binary exists
//   - puppet_agent_major_version: major component of the puppetversion fact
//   - puppet_server_version / puppet_server_major_version: puppetserver version
//   - puppet_user_uid / puppet_user_gid: numeric ids of the puppet user
//
// Every fact except local_cert_signatures is confined to Linux hosts. All
// I/O goes through the collaborators in Deps so the facts can be tested
// without a Puppet installation.
package puppet
