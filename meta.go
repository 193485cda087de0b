package mdindex

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// Meta holds key-value metadata parsed from a fenced code block's info
// string, e.g. ```go file=main.go or ```sql {"name": "create-table"}.
type Meta map[string]interface{}

// Get returns the metadata value for the given key as a string. It returns
// an empty string if the key is missing or the Meta is nil.
func (m Meta) Get(name string) string {
	if m == nil {
		return ""
	}

	value, has := m[name]
	if !has {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

var (
	reInfo     = regexp.MustCompile(`\s*(\w+)\s*(.*)\s*`)
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}$`)
)

// parseInfo splits a fence info string into the language tag and the
// metadata that follows it.
func parseInfo(info []byte) (string, Meta, error) {
	all := reInfo.FindSubmatch(info)
	if all == nil {
		return "", nil, nil
	}

	var (
		lang string
		meta Meta
		err  error
	)

	if len(all) > 1 {
		lang = string(all[1])
	}

	if len(all) <= 2 {
		return lang, meta, nil
	}

	meta, err = parseMeta(all[2])

	return lang, meta, err
}

func parseMeta(input []byte) (Meta, error) {
	if len(input) == 0 {
		return nil, nil
	}

	if reJSON.Match(input) {
		var meta Meta

		if err := json.Unmarshal(input, &meta); err != nil {
			return nil, err
		}

		return meta, nil
	}

	if subs := reBrackets.FindSubmatch(input); subs != nil {
		input = subs[1]
	}

	words, err := shlex.Split(string(input))
	if err != nil {
		return nil, err
	}

	if len(words) == 0 {
		return nil, nil
	}

	dict := make(Meta)

	for _, word := range words {
		idx := strings.IndexRune(word, '=')
		if idx >= 0 && idx < len(word) {
			dict[word[:idx]] = word[idx+1:]
		}
	}

	return dict, nil
}
