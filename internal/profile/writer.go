package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/sjson"
)

// Marshal serializes a profile back into descriptor JSON. The output
// round-trips through Parse: delays always keep fractional syntax so they
// are not misread as keycodes.
func Marshal(p *Profile) ([]byte, error) {
	out, err := sjson.Set("{}", "name", p.Name)
	if err != nil {
		return nil, fmt.Errorf("encoding name: %w", err)
	}
	out, err = sjson.SetRaw(out, "macros", "[]")
	if err != nil {
		return nil, fmt.Errorf("encoding macros: %w", err)
	}

	for i, b := range p.Bindings {
		entry, err := marshalBinding(b)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		out, err = sjson.SetRaw(out, "macros.-1", entry)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
	}

	return []byte(out), nil
}

// WriteFile serializes a profile to a descriptor file.
func WriteFile(p *Profile, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	return nil
}

// marshalBinding renders one [color, label, sequence] entry.
func marshalBinding(b Binding) (string, error) {
	entry, err := sjson.SetRaw("[]", "-1", fmt.Sprintf("%d", b.Color))
	if err != nil {
		return "", err
	}
	entry, err = sjson.Set(entry, "-1", b.Label)
	if err != nil {
		return "", err
	}

	seq := "[]"
	for _, inst := range b.Sequence {
		raw, err := marshalInstruction(inst)
		if err != nil {
			return "", err
		}
		seq, err = sjson.SetRaw(seq, "-1", raw)
		if err != nil {
			return "", err
		}
	}

	return sjson.SetRaw(entry, "-1", seq)
}

// marshalInstruction renders one sequence item as a raw JSON token.
func marshalInstruction(inst Instruction) (string, error) {
	switch v := inst.(type) {
	case KeyCode:
		return strconv.Itoa(int(v)), nil
	case Delay:
		return floatToken(time.Duration(v).Seconds()), nil
	case TypeText:
		return strconv.Quote(string(v)), nil
	case MediaCodes:
		out := "[]"
		var err error
		for _, s := range v {
			raw := strconv.Itoa(s.Code)
			if s.IsPause() {
				raw = floatToken(s.Pause.Seconds())
			}
			out, err = sjson.SetRaw(out, "-1", raw)
			if err != nil {
				return "", err
			}
		}
		return out, nil
	case MouseAction:
		out := "{}"
		var err error
		if v.Buttons != nil {
			if out, err = sjson.Set(out, "buttons", *v.Buttons); err != nil {
				return "", err
			}
		}
		if v.DX != 0 {
			if out, err = sjson.Set(out, "x", v.DX); err != nil {
				return "", err
			}
		}
		if v.DY != 0 {
			if out, err = sjson.Set(out, "y", v.DY); err != nil {
				return "", err
			}
		}
		if v.Wheel != 0 {
			if out, err = sjson.Set(out, "wheel", v.Wheel); err != nil {
				return "", err
			}
		}
		if v.Tone != nil {
			if out, err = sjson.Set(out, "tone", *v.Tone); err != nil {
				return "", err
			}
		} else if v.Play != "" {
			if out, err = sjson.Set(out, "play", v.Play); err != nil {
				return "", err
			}
		}
		return out, nil
	}
	return "", fmt.Errorf("unknown instruction %T", inst)
}

// floatToken formats seconds so the token always reads back as a delay.
func floatToken(seconds float64) string {
	s := strconv.FormatFloat(seconds, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
