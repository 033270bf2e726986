package recipe

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed fuse recipe: a list of statements applied in order.
type File struct {
	Statements []*Statement `@@*`
}

// Statement is one recipe line.
type Statement struct {
	Pos lexer.Position

	BootCfg  *BootCfgStmt  `  @@`
	Watchdog *WatchdogStmt `| @@`
	MAC      *MACStmt      `| @@`
	Lock     *LockStmt     `| @@`
}

// BootCfgStmt sets a boolean boot configuration field.
// Example: bootcfg SJC_DISABLE = true;
type BootCfgStmt struct {
	Field string `"bootcfg" @Ident Assign`
	Value string `@( "true" | "false" ) Semicolon`
}

// WatchdogStmt configures the boot watchdog.
// Example: watchdog on timeout 32;
type WatchdogStmt struct {
	State   string `"watchdog" @( "on" | "off" )`
	Timeout *int   `( "timeout" @Int )? Semicolon`
}

// MACStmt programs the Ethernet address.
// Example: mac 00:04:9f:01:02:03;
type MACStmt struct {
	Address string `"mac" @MAC Semicolon`
}

// LockStmt sets a lock field. Without a state, 1-bit fields are locked and
// 2-bit fields are write protected.
// Example: lock BOOT_CFG override-write-protect;
type LockStmt struct {
	Name  string `"lock" @Ident`
	State string `@Ident? Semicolon`
}
