// Package otp provides word-level access to the i.MX8M Mini on-chip OTP
// (OCOTP) fuses exposed by the Linux imx-ocotp driver as an nvmem device, and
// codecs for the security-relevant fuse fields built on top of it.
//
// # Overview
//
// The package is organised in three layers:
//   - Fuse word table: a fixed mapping from WordID to byte offset in the nvmem
//     device, valid only for the SoC named by CompatibleSoC.
//   - Context: an open device handle with Read, Write and Update primitives.
//   - Codecs: SRK hash, lock word, boot configuration and MAC address.
//
// # Irreversibility
//
// Fuse bits can only go from 0 to 1. Every codec that persists state reads the
// current fuse words first, decides whether a write is needed, and writes only
// the words that differ. Codecs never write a word whose current value already
// matches.
//
// Multi-word structures (SRK hash, boot configuration, MAC address) are not
// updated atomically. An interrupted write leaves a partially programmed
// structure behind; the codecs tolerate resuming from that state where it is
// safe (see WriteSRK) and refuse otherwise.
//
// # Usage
//
//	c, err := otp.Open("", false)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	cfg, err := otp.ReadBootCfg(c)
//	if err != nil {
//		return err
//	}
//	if err := cfg.SetBool(otp.BootCfgSJCDisable, true); err != nil {
//		return err
//	}
//	return otp.CommitBootCfg(c, cfg)
//
// # Testing
//
// SimDevice is an in-memory fuse device that records writes, so codec
// behaviour can be checked without hardware. Pass it with WithDevice and a
// matching platform probe:
//
//	sim := otp.NewSimDevice()
//	c, err := otp.Open("", false,
//		otp.WithDevice(sim),
//		otp.WithPlatformProbe(otp.StaticPlatform(otp.CompatibleSoC)))
package otp
