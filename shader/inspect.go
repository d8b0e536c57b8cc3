package shader

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_IDENT = iota
	TOKEN_NUMBER
	TOKEN_PUNCT
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_IDENT))
	lexer.Add([]byte(`[0-9]+\.?[0-9]*`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`//[^\n]*`), skip)
	lexer.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), skip)
	lexer.Add([]byte(`\s+`), skip)
	lexer.Add([]byte(`[^a-zA-Z0-9_ \t\n\r]`), getToken(TOKEN_PUNCT))
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// Declarations is what tooling needs to know about an effect before loading it.
type Declarations struct {
	PaletteSize int      `json:"palette_size" yaml:"palette_size"`
	Techniques  []string `json:"techniques" yaml:"techniques"`
}

// Inspect scans effect source for the matrix palette declaration and technique names.
func Inspect(source []byte) (*Declarations, error) {
	scanner, err := lexer.Scanner(source)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	tokens := make([]*lexmachine.Token, 0, 256)
	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to scan effect source")
		}
		tokens = append(tokens, Itok.(*lexmachine.Token))
	}

	decl := &Declarations{Techniques: make([]string, 0)}
	for i, tok := range tokens {
		if tok.Type != TOKEN_IDENT {
			continue
		}
		switch tok.Value.(string) {
		case "technique":
			if i+1 < len(tokens) && tokens[i+1].Type == TOKEN_IDENT {
				decl.Techniques = append(decl.Techniques, tokens[i+1].Value.(string))
			}
		case "float4x4":
			// float4x4 MatrixPalette [ N ] ;
			if i+4 >= len(tokens) || tokens[i+1].Value.(string) != PALETTE_NAME {
				continue
			}
			if tokens[i+2].Value.(string) != "[" || tokens[i+3].Type != TOKEN_NUMBER || tokens[i+4].Value.(string) != "]" {
				return nil, errors.Errorf("Malformed %s declaration on line %v", PALETTE_NAME, tok.StartLine)
			}
			if decl.PaletteSize != 0 {
				return nil, errors.Errorf("%s declared twice (line %v)", PALETTE_NAME, tok.StartLine)
			}
			size, err := strconv.Atoi(tokens[i+3].Value.(string))
			if err != nil || size <= 0 {
				return nil, errors.Errorf("Bad %s size %q on line %v", PALETTE_NAME, tokens[i+3].Value, tok.StartLine)
			}
			decl.PaletteSize = size
		}
	}

	if decl.PaletteSize == 0 {
		return nil, errors.Errorf("No %s declaration found", PALETTE_NAME)
	}
	return decl, nil
}
