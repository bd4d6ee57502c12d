package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mkTok(typ, idx int) Token {
	return &BaseToken{TokenType: typ, TokenIndex: idx, TokenChannel: DefaultChannel}
}

func TestBufferedTokenStreamLA(t *testing.T) {
	s := NewBufferedTokenStream("test", []Token{mkTok(10, 0), mkTok(11, 1), mkTok(EOF, 2)})

	assert.Equal(t, 10, s.LA(1))
	assert.Equal(t, 11, s.LA(2))
	s.Consume()
	assert.Equal(t, 11, s.LA(1))
	assert.Equal(t, 10, s.LT(0).Type())
}

func TestBufferedTokenStreamMarkRelease(t *testing.T) {
	s := NewBufferedTokenStream("test", []Token{mkTok(10, 0), mkTok(11, 1)})
	mark := s.Mark()
	s.Consume()
	s.Consume()
	assert.Equal(t, EOF, s.LA(1))
	s.Release(mark)
	assert.Equal(t, 10, s.LA(1))
}

func TestBufferedTokenStreamSeekClamps(t *testing.T) {
	s := NewBufferedTokenStream("test", []Token{mkTok(10, 0)})
	s.Seek(-5)
	assert.Equal(t, 0, s.Index())
	s.Seek(50)
	assert.Equal(t, 1, s.Index())
}
