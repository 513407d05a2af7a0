package livegraph

// ArtifactKind is the closed set of output artifact kinds (spec §6).
type ArtifactKind string

const (
	ArtifactEntry      ArtifactKind = "entry"
	ArtifactSourceMap  ArtifactKind = "source-map"
	ArtifactStats      ArtifactKind = "stats"
)

// Artifact is one named output file (spec §6: "a sequence of named
// artifacts (each artifact: kind, name, filename, content)").
type Artifact struct {
	Kind     ArtifactKind
	Name     string
	Filename string
	Content  string
}

// Output is Serialize's result: either a single text string (Text, for any
// format when no source map was requested) or a set of named artifacts.
type Output struct {
	Text      string
	Artifacts []Artifact
}
