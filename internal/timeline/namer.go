package timeline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var versionSuffix = regexp.MustCompile(`_([0-9]+)$`)

// Namer hands out document-wide unique timeline names. One Namer lives for
// one export run.
type Namer struct {
	stage   string
	counter int
	used    map[string]bool
}

// NewNamer returns a namer for a document whose stage timeline is called
// stageName.
func NewNamer(stageName string) *Namer {
	return &Namer{stage: stageName, used: make(map[string]bool)}
}

// Name returns the name of a timeline. The stage (asset id 0) is always
// called after the stage. Named symbols keep their name as an identifier,
// versioned with _N on collision. Unnamed symbols get a synthesized
// "GraphicN" label.
func (n *Namer) Name(assetID uint32, name string) string {
	if assetID == 0 {
		return n.stage
	}
	if name == "" {
		return n.Synthesize()
	}
	return n.Reserve(Identifier(name))
}

// Synthesize returns the next free "GraphicN" name.
func (n *Namer) Synthesize() string {
	for {
		n.counter++
		name := "Graphic" + strconv.Itoa(n.counter)
		if !n.taken(name) {
			n.used[name] = true
			return name
		}
	}
}

// Reserve marks name as used, versioning it first if it is taken or equal
// to the stage name.
func (n *Namer) Reserve(name string) string {
	for n.taken(name) {
		name = NextVersion(name)
	}
	n.used[name] = true
	return name
}

func (n *Namer) taken(name string) bool {
	return n.used[name] || name == n.stage
}

// NextVersion bumps a trailing _N suffix, or appends _1.
func NextVersion(name string) string {
	if m := versionSuffix.FindStringSubmatchIndex(name); m != nil {
		v, err := strconv.Atoi(name[m[2]:m[3]])
		if err == nil {
			return name[:m[0]] + "_" + strconv.Itoa(v+1)
		}
	}
	return name + "_1"
}

// Identifier turns a library item name into a script identifier: the last
// path element with every other character replaced by '_'. Names starting
// with a digit get a leading '_'.
func Identifier(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	var sb strings.Builder
	for _, r := range name {
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(id)[0]) {
		id = "_" + id
	}
	return id
}
