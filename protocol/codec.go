package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Encode renders a message as a single text frame.
func Encode(payload any) (string, error) {
	switch p := payload.(type) {
	case PieceRequest:
		return MsgPiece, nil
	case Piece:
		return MsgPiece + " " + strconv.Itoa(p.Kind), nil
	case Board:
		return FormatBoard(p.Values), nil
	case Score:
		return MsgScore + " " + strconv.Itoa(p.Value), nil
	case Lives:
		return MsgLives + " " + strconv.Itoa(p.Value), nil
	case Die:
		return MsgDie, nil
	case Scores:
		return MsgScores + " " + FormatScores(p.Entries), nil
	case nil:
		return "", fmt.Errorf("trying to encode nil payload")
	default:
		return "", fmt.Errorf("encode %T: %w", payload, ErrUnknownMessage)
	}
}

// FormatBoard renders cell values row-major after the BOARD keyword.
func FormatBoard(values []int) string {
	var b strings.Builder
	b.WriteString(MsgBoard)
	for _, v := range values {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func FormatScores(entries []ScoreEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lives := Dead
		if e.Lives >= 0 {
			lives = strconv.Itoa(e.Lives)
		}
		lines[i] = e.Name + ":" + strconv.Itoa(e.Score) + ":" + lives
	}
	return strings.Join(lines, "\n")
}

// DecodeEnvelope splits a frame into its kind and body.
func DecodeEnvelope(line string) (Envelope, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Envelope{}, fmt.Errorf("empty frame: %w", ErrMalformed)
	}
	kind, body, _ := strings.Cut(line, " ")
	switch kind {
	case MsgPiece, MsgBoard, MsgScore, MsgLives, MsgDie, MsgScores:
	default:
		return Envelope{}, fmt.Errorf("%q: %w", kind, ErrUnknownMessage)
	}
	return Envelope{T: kind, P: body}, nil
}

// DecodePayload parses the body of env into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *Piece:
		if env.T != MsgPiece {
			return out, mismatch(env, "PIECE")
		}
		p.Kind, err = parseInt(env.P)
	case *Board:
		if env.T != MsgBoard {
			return out, mismatch(env, "BOARD")
		}
		p.Values, err = parseBoard(env.P)
	case *Score:
		if env.T != MsgScore {
			return out, mismatch(env, "SCORE")
		}
		p.Value, err = parseInt(env.P)
	case *Lives:
		if env.T != MsgLives {
			return out, mismatch(env, "LIVES")
		}
		p.Value, err = parseInt(env.P)
	case *Scores:
		if env.T != MsgScores {
			return out, mismatch(env, "SCORES")
		}
		p.Entries, err = ParseScores(env.P)
	default:
		return out, fmt.Errorf("decode %T: %w", out, ErrUnknownMessage)
	}
	if err != nil {
		return out, fmt.Errorf("%s %q: %w", env.T, env.P, err)
	}
	return out, nil
}

// Decode parses a whole frame into one of the message types. A bare PIECE
// decodes to PieceRequest, PIECE with an argument to Piece.
func Decode(line string) (any, error) {
	env, err := DecodeEnvelope(line)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case MsgPiece:
		if strings.TrimSpace(env.P) == "" {
			return PieceRequest{}, nil
		}
		return DecodePayload[Piece](env)
	case MsgBoard:
		return DecodePayload[Board](env)
	case MsgScore:
		return DecodePayload[Score](env)
	case MsgLives:
		return DecodePayload[Lives](env)
	case MsgScores:
		return DecodePayload[Scores](env)
	default:
		return Die{}, nil
	}
}

// ParseScores reads name:score:lives records, one per line. A lives field
// of DEAD maps to -1. Names may themselves contain colons.
func ParseScores(body string) ([]ScoreEntry, error) {
	var out []ScoreEntry
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 3 {
			return nil, fmt.Errorf("record %q: %w", line, ErrMalformed)
		}
		n := len(parts)
		score, err := strconv.Atoi(parts[n-2])
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", line, ErrMalformed)
		}
		lives := -1
		if parts[n-1] != Dead {
			if lives, err = strconv.Atoi(parts[n-1]); err != nil {
				return nil, fmt.Errorf("record %q: %w", line, ErrMalformed)
			}
		}
		out = append(out, ScoreEntry{
			Name:  strings.Join(parts[:n-2], ":"),
			Score: score,
			Lives: lives,
		})
	}
	return out, nil
}

func parseInt(body string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil {
		return 0, ErrMalformed
	}
	return n, nil
}

func parseBoard(body string) ([]int, error) {
	fields := strings.Fields(body)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, ErrMalformed
		}
		out[i] = v
	}
	return out, nil
}

func mismatch(env Envelope, want string) error {
	return fmt.Errorf("payload for %s in %s frame: %w", want, env.T, ErrMalformed)
}
