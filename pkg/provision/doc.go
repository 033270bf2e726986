// Package provision implements the fuse provisioning workflow that closes an
// i.MX8M Mini for secure boot, and the read-only diagnostics used to audit it.
//
// Secure runs three idempotent steps: program the SRK hash, lock the SRK
// fuses, set SEC_CONFIG. Inspect and IsSecured never write.
package provision
