package wordexpr

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Expr is a product of terms, read left to right.
type Expr struct {
	Terms []*Term `parser:"@@*"`
}

// Term is a factor raised to an optional integer power (negative powers invert).
type Term struct {
	Factor *Factor `parser:"@@"`
	Power  *int    `parser:"( \"^\" @Int )?"`
}

// Factor is a single generator, a parenthesized product, or a commutator.
type Factor struct {
	Gen        *string     `parser:"  @Gen"`
	Index      *int        `parser:"| @Int"`
	Letter     *string     `parser:"| @Letter"`
	Group      *Expr       `parser:"| \"(\" @@ \")\""`
	Commutator *Commutator `parser:"| \"[\" @@ \"]\""`
}

// Commutator [u,v] expands to u v u^-1 v^-1
type Commutator struct {
	Left  *Expr `parser:"@@"`
	Right *Expr `parser:"\",\" @@"`
}

var sWordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Gen", Pattern: `[xX][0-9]+`},
	{Name: "Int", Pattern: `[-+]?[0-9]+`},
	{Name: "Letter", Pattern: `[A-Za-z]`},
	{Name: "Punct", Pattern: `[()\[\],^]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var sParseWordExpr = participle.MustBuild[Expr](
	participle.Lexer(sWordLexer),
	participle.Elide("whitespace"),
)
