package types

import (
	"fmt"
	"strings"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
)

// Theme is the ui color scheme. The zero value is ThemeLight.
type Theme uint8

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeLight, fmt.Errorf("unknown theme %q", s)
}

func (t Theme) MarshalJSON() ([]byte, error) {
	return jsoncompat.Marshal(t.String())
}

func (t *Theme) UnmarshalJSON(data []byte) error {
	var s string
	if err := jsoncompat.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTheme(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Decode lets envconfig read a Theme from the environment.
func (t *Theme) Decode(value string) error {
	parsed, err := ParseTheme(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
