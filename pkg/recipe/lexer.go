package recipe

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RecipeLexer defines the lexical structure of fuse recipes.
var RecipeLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Colon separated hardware address, must come before Int and Ident
	{Name: "MAC", Pattern: `[0-9A-Fa-f]{2}(:[0-9A-Fa-f]{2}){5}`},

	{Name: "Int", Pattern: `[0-9]+`},

	// Field names (SJC_DISABLE) and lock states (write-protect)
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},

	{Name: "Assign", Pattern: `=`},
	{Name: "Semicolon", Pattern: `;`},
})
