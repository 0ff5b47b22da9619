package bias

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ideology names used in lexicons and press leanings.
const (
	Conservative = "conservative"
	Progressive  = "progressive"
	Moderate     = "moderate"
)

// Lexicon is the YAML structure of a bias lexicon file:
//
//	press:
//	  조선일보: conservative
//	keywords:
//	  conservative: [안보, 시장]
//	  progressive: [복지, 평등]
type Lexicon struct {
	Press    map[string]string   `yaml:"press"`
	Keywords map[string][]string `yaml:"keywords"`
}

// DefaultLexicon returns the built-in press leanings and ideology keywords.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Press: map[string]string{
			"조선일보": Conservative,
			"동아일보": Conservative,
			"중앙일보": Moderate,
			"한겨레":  Progressive,
		},
		Keywords: map[string][]string{
			Conservative: {"안보", "시장", "자유", "북한", "좌파", "종북", "일자리"},
			Progressive:  {"복지", "평등", "노동", "민주", "개혁", "재벌", "서민"},
		},
	}
}

// LoadLexicon reads a lexicon from a YAML file
func LoadLexicon(path string) (Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return Lexicon{}, err
	}
	defer f.Close()

	var lex Lexicon
	if err := yaml.NewDecoder(f).Decode(&lex); err != nil {
		return Lexicon{}, fmt.Errorf("failed to decode lexicon %s: %w", path, err)
	}
	if len(lex.Keywords[Conservative]) == 0 || len(lex.Keywords[Progressive]) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon %s needs %s and %s keywords", path, Conservative, Progressive)
	}
	return lex, nil
}
