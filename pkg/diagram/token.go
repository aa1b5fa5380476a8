package diagram

import "github.com/google/uuid"

// Token is a transition symbol. Transitions refer to tokens by id, so
// renaming a token relabels every transition that uses it.
type Token struct {
	id     string
	symbol string
}

// NewToken creates a token. An empty id generates a fresh one.
func NewToken(id, symbol string) *Token {
	if id == "" {
		id = uuid.NewString()
	}
	return &Token{id: id, symbol: symbol}
}

// ID returns the token's identifier.
func (t *Token) ID() string { return t.id }

// Symbol returns the token's symbol.
func (t *Token) Symbol() string { return t.symbol }

// SetSymbol changes the symbol. The id is unaffected.
func (t *Token) SetSymbol(s string) { t.symbol = s }

// SerializableToken is the persisted form of a Token.
type SerializableToken struct {
	ID     string `json:"id" yaml:"id"`
	Symbol string `json:"symbol" yaml:"symbol"`
}

// Serializable projects the token to its persisted form.
func (t *Token) Serializable() SerializableToken {
	return SerializableToken{ID: t.id, Symbol: t.symbol}
}

// TokenFromSerializable rebuilds a token, keeping its id.
func TokenFromSerializable(s SerializableToken) *Token {
	return NewToken(s.ID, s.Symbol)
}
