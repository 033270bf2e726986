// Package recipe parses fuse recipes and turns them into write plans.
//
// A recipe describes the wanted boot configuration, MAC address and lock
// state of a board:
//
//	# production settings
//	bootcfg SJC_DISABLE = true;
//	watchdog on timeout 32;
//	mac 00:04:9f:01:02:03;
//	lock BOOT_CFG write-protect;
//	lock SRK;
//
// File.Plan resolves a recipe against the fuses of a board and refuses
// anything that cannot be programmed, before a single word is written.
package recipe
