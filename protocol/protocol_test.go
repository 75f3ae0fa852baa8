package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	cases := map[string]string{
		MsgPiece:  "PIECE",
		MsgBoard:  "BOARD",
		MsgScore:  "SCORE",
		MsgLives:  "LIVES",
		MsgDie:    "DIE",
		MsgScores: "SCORES",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("constant = %q, want %q", got, want)
		}
	}
	if Dead != "DEAD" {
		t.Fatalf("Dead = %q, want %q", Dead, "DEAD")
	}
}
