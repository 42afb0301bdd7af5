package storage

// Preferred routes each call to the mirror when one is present and to the
// authoritative backend otherwise. A single call never touches both.
type Preferred struct {
	mirror        Backend
	authoritative Backend
}

// Prefer builds the router. mirror may be nil.
func Prefer(mirror, authoritative Backend) *Preferred {
	return &Preferred{mirror: mirror, authoritative: authoritative}
}

func (p *Preferred) active() Backend {
	if p.mirror != nil {
		return p.mirror
	}
	return p.authoritative
}

// ActiveName reports which backend serves calls: "mirror" or "file".
func (p *Preferred) ActiveName() string {
	if p.mirror != nil {
		return "mirror"
	}
	return "file"
}

// Authoritative returns the authoritative backend.
func (p *Preferred) Authoritative() Backend {
	return p.authoritative
}

// Mirror returns the mirror backend, or nil.
func (p *Preferred) Mirror() Backend {
	return p.mirror
}

func (p *Preferred) Snapshot() (*Snapshot, error) {
	return p.active().Snapshot()
}

func (p *Preferred) Snapshots() ([]Snapshot, error) {
	return p.active().Snapshots()
}

func (p *Preferred) ReplaceSnapshot(s Snapshot) error {
	return p.active().ReplaceSnapshot(s)
}

func (p *Preferred) SetConfiguredStart(duration string) error {
	return p.active().SetConfiguredStart(duration)
}

func (p *Preferred) SetLastObserved(duration string) error {
	return p.active().SetLastObserved(duration)
}

func (p *Preferred) Entries() ([]RegisterEntry, error) {
	return p.active().Entries()
}

func (p *Preferred) AppendEntry(week, offset string) (RegisterEntry, bool, error) {
	return p.active().AppendEntry(week, offset)
}

func (p *Preferred) Archive(week, offset string, reset Snapshot) (RegisterEntry, bool, error) {
	return p.active().Archive(week, offset, reset)
}

func (p *Preferred) DeleteEntry(id int64) (bool, error) {
	return p.active().DeleteEntry(id)
}

func (p *Preferred) Replace(doc Document) error {
	return p.active().Replace(doc)
}

// Close closes both backends and returns the first error.
func (p *Preferred) Close() error {
	var firstErr error
	if p.mirror != nil {
		firstErr = p.mirror.Close()
	}
	if err := p.authoritative.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
