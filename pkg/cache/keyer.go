package cache

// DocumentKeyOpts are the inputs that change how a spec is serialized.
type DocumentKeyOpts struct {
	Mutate bool `json:"mutate,omitempty"`
	Pretty bool `json:"pretty,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string   `json:"format"`
	Title      string   `json:"title,omitempty"`
	ChartJSURL string   `json:"chartjs_url,omitempty"`
	PluginURLs []string `json:"plugin_urls,omitempty"`
	HookHash   string   `json:"hook_hash,omitempty"`
	Mutate     bool     `json:"mutate,omitempty"`
	LiveReload string   `json:"live_reload,omitempty"`
}

// Keyer builds cache keys for each cached stage.
type Keyer interface {
	// DocumentKey returns the key for the encoded document built from a spec
	// whose content hashes to specHash.
	DocumentKey(specHash string, opts DocumentKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from a document
	// whose encoded form hashes to docHash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "doc:<sha256>" and "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(specHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", specHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// WithPrefix namespaces every key inner produces, so several deployments can
// share one Redis database. A nil inner means DefaultKeyer; an empty prefix
// returns inner unchanged.
func WithPrefix(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if prefix == "" {
		return inner
	}
	return prefixedKeyer{inner: inner, prefix: prefix}
}

type prefixedKeyer struct {
	inner  Keyer
	prefix string
}

func (k prefixedKeyer) DocumentKey(specHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(specHash, opts)
}

func (k prefixedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
