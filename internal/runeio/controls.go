package runeio

import "strings"

// c0Names are the classic ASCII control mnemonics, indexed by rune.
var c0Names = [32]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "NL", "VT", "NP", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// c1Names are the ISO-8859 control mnemonics, indexed by rune - 0x80.
var c1Names = [32]string{
	"PAD", "HOP", "BPH", "NBH", "IND", "NEL", "SSA", "ESA",
	"HTS", "HTJ", "VTS", "PLD", "PLU", "RI", "SS2", "SS3",
	"DCS", "PU1", "PU2", "STS", "CCH", "MW", "SPA", "EPA",
	"SOS", "SGCI", "SCI", "CSI", "ST", "OSC", "PM", "APC",
}

var controls = make(map[string]rune, 2*len(c0Names)+2*len(c1Names)+2)

func init() {
	for i, name := range c0Names {
		controls[name] = rune(i)
		controls[CaretForm(rune(i))] = rune(i)
	}
	for i, name := range c1Names {
		controls[name] = rune(0x80 + i)
		controls[CaretForm(rune(0x80+i))] = rune(0x80 + i)
	}
	controls["SP"] = ' '
	controls["DEL"] = 0x7f
	controls[CaretForm(0x7f)] = 0x7f
}

// Control resolves a control mnemonic like <ESC> (any case) or a caret
// form like ^[ to its rune.
func Control(text string) (rune, bool) {
	if len(text) > 2 && text[0] == '<' && text[len(text)-1] == '>' {
		text = strings.ToUpper(text[1 : len(text)-1])
	} else if !strings.HasPrefix(text, "^") {
		return 0, false
	}
	r, ok := controls[text]
	return r, ok
}

// CaretForm computes the ^-escaped printable form of a control rune.
func CaretForm(r rune) string {
	if r < 0x20 || r == 0x7f {
		return "^" + string(r^0x40)
	} else if 0x80 <= r && r <= 0x9f {
		return "^[" + string(r^0xc0)
	}
	return ""
}
