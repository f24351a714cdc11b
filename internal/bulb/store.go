// Package bulb keeps the user's bulb list and drives bulbs through the wiz client.
package bulb

import (
	"fmt"
	"log/slog"
	"net/netip"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/internal/errors"
	"github.com/jmylchreest/wizlightd/internal/events"
)

// DefaultName is given to bulbs added without a name
const DefaultName = "New Bulb"

// Bulb is one configured bulb. IP may be empty until the user fills it in.
type Bulb struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IP           string `json:"ip"`
	ShowInWidget bool   `json:"show_in_widget"`
}

func (b Bulb) payload() events.BulbPayload {
	return events.BulbPayload{ID: b.ID, Name: b.Name, IP: b.IP, ShowInWidget: b.ShowInWidget}
}

// Update holds the fields to change on a bulb; nil fields are left alone
type Update struct {
	Name         *string
	IP           *string
	ShowInWidget *bool
}

// Store is the ordered, in-memory bulb list backed by the config file.
// Mutations are only persisted by Save.
type Store struct {
	logger *slog.Logger
	cfg    *config.Config
	bus    events.Publisher

	mu      sync.RWMutex
	bulbs   []Bulb
	unsaved bool // ids were assigned to entries the file lists without one

	saveMu sync.Mutex
}

// NewStore loads the bulb list from cfg
func NewStore(logger *slog.Logger, cfg *config.Config, bus events.Publisher) *Store {
	s := &Store{logger: logger, cfg: cfg, bus: bus}
	s.bulbs, s.unsaved = fromConfig(nil, cfg.Bulbs)
	logger.Debug("bulb: loaded bulbs from config", "count", len(s.bulbs))
	return s
}

// fromConfig converts persisted entries. An entry without an id takes the id of an
// unclaimed bulb in prev with the same name and ip, or a new one. The bool reports
// whether any entry lacked an id.
func fromConfig(prev []Bulb, in []config.BulbConfig) ([]Bulb, bool) {
	claimed := make(map[string]bool, len(in))
	for _, b := range in {
		if b.ID != "" {
			claimed[b.ID] = true
		}
	}

	missing := false
	out := make([]Bulb, 0, len(in))
	for _, b := range in {
		nb := Bulb{ID: b.ID, Name: b.Name, IP: strings.TrimSpace(b.IP), ShowInWidget: b.ShowInWidget}
		if nb.ID == "" {
			missing = true
			for _, p := range prev {
				if !claimed[p.ID] && p.Name == nb.Name && p.IP == nb.IP {
					nb.ID = p.ID
					break
				}
			}
			if nb.ID == "" {
				nb.ID = uuid.NewString()
			}
			claimed[nb.ID] = true
		}
		out = append(out, nb)
	}
	return out, missing
}

// EnsurePlaceholder adds an empty "Living Room" bulb when the list is empty, as on first
// run. It reports whether one was added; the caller decides when to Save.
func (s *Store) EnsurePlaceholder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bulbs) > 0 {
		return false
	}
	s.bulbs = append(s.bulbs, Bulb{ID: uuid.NewString(), Name: config.PlaceholderBulbName})
	s.logger.Info("bulb: created placeholder bulb", "name", config.PlaceholderBulbName)
	return true
}

// List returns a copy of every bulb in display order
func (s *Store) List() []Bulb {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.bulbs)
}

// WidgetBulbs returns the bulbs flagged to show in the status widget
func (s *Store) WidgetBulbs() []Bulb {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Bulb
	for _, b := range s.bulbs {
		if b.ShowInWidget {
			out = append(out, b)
		}
	}
	return out
}

// Get returns the bulb with the given id
func (s *Store) Get(id string) (Bulb, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.bulbs[i], nil
	}
	return Bulb{}, errors.NotFoundf("bulb %s", id)
}

// Find resolves ref as an id, then a case-insensitive name, then an IP address
func (s *Store) Find(ref string) (Bulb, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(ref); i >= 0 {
		return s.bulbs[i], nil
	}
	for _, b := range s.bulbs {
		if strings.EqualFold(b.Name, ref) {
			return b, nil
		}
	}
	for _, b := range s.bulbs {
		if b.IP != "" && b.IP == ref {
			return b, nil
		}
	}
	return Bulb{}, errors.NotFoundf("bulb %s", ref)
}

// Add appends a bulb. An empty name becomes DefaultName; a non-empty ip must be an IP address.
func (s *Store) Add(name, ip string) (Bulb, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	ip, err := normalizeIP(ip)
	if err != nil {
		return Bulb{}, err
	}

	b := Bulb{ID: uuid.NewString(), Name: name, IP: ip}
	s.mu.Lock()
	s.bulbs = append(s.bulbs, b)
	s.mu.Unlock()

	s.logger.Info("bulb: added", "id", b.ID, "name", b.Name, "ip", b.IP)
	s.bus.Publish(events.NewEvent(events.BulbAdded, b.payload()))
	return b, nil
}

// Update applies u to the bulb with the given id
func (s *Store) Update(id string, u Update) (Bulb, error) {
	var ip string
	if u.IP != nil {
		var err error
		if ip, err = normalizeIP(*u.IP); err != nil {
			return Bulb{}, err
		}
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return Bulb{}, errors.InvalidInputf("bulb name must not be empty")
	}

	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return Bulb{}, errors.NotFoundf("bulb %s", id)
	}
	b := &s.bulbs[i]
	if u.Name != nil {
		b.Name = strings.TrimSpace(*u.Name)
	}
	if u.IP != nil {
		b.IP = ip
	}
	if u.ShowInWidget != nil {
		b.ShowInWidget = *u.ShowInWidget
	}
	updated := *b
	s.mu.Unlock()

	s.logger.Info("bulb: updated", "id", updated.ID, "name", updated.Name, "ip", updated.IP)
	s.bus.Publish(events.NewEvent(events.BulbUpdated, updated.payload()))
	return updated, nil
}

// Delete removes the bulb with the given id
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return errors.NotFoundf("bulb %s", id)
	}
	removed := s.bulbs[i]
	s.bulbs = slices.Delete(s.bulbs, i, i+1)
	s.mu.Unlock()

	s.logger.Info("bulb: removed", "id", removed.ID, "name", removed.Name)
	s.bus.Publish(events.NewEvent(events.BulbRemoved, removed.payload()))
	return nil
}

// AssignDiscovered appends a bulb named "WiZ <last octet>" for every address not already
// in the list, in the order given. It returns the number of bulbs added.
func (s *Store) AssignDiscovered(ips []string) int {
	var added []Bulb

	s.mu.Lock()
	known := make(map[string]struct{}, len(s.bulbs))
	for _, b := range s.bulbs {
		if b.IP != "" {
			known[b.IP] = struct{}{}
		}
	}
	for _, raw := range ips {
		ip, err := normalizeIP(raw)
		if err != nil || ip == "" {
			s.logger.Warn("bulb: ignoring discovered address", "ip", raw, "error", err)
			continue
		}
		if _, ok := known[ip]; ok {
			continue
		}
		known[ip] = struct{}{}
		b := Bulb{ID: uuid.NewString(), Name: discoveredName(ip), IP: ip}
		s.bulbs = append(s.bulbs, b)
		added = append(added, b)
	}
	s.mu.Unlock()

	for _, b := range added {
		s.logger.Info("bulb: assigned discovered bulb", "id", b.ID, "ip", b.IP)
		s.bus.Publish(events.NewEvent(events.BulbAdded, b.payload()))
	}
	return len(added)
}

// Replace swaps in a bulb list read back from the config file. It reports whether
// anything differed.
func (s *Store) Replace(in []config.BulbConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, missing := fromConfig(s.bulbs, in)
	s.unsaved = s.unsaved || missing
	if slices.Equal(s.bulbs, next) {
		return false
	}
	s.bulbs = next
	s.logger.Info("bulb: bulb list replaced", "count", len(next))
	return true
}

// NeedsSave reports whether ids were assigned on load that the config file does not
// hold yet
func (s *Store) NeedsSave() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unsaved
}

// Save writes the bulb list to the config file
func (s *Store) Save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	out := make([]config.BulbConfig, 0, len(s.bulbs))
	for _, b := range s.bulbs {
		out = append(out, config.BulbConfig{ID: b.ID, Name: b.Name, IP: b.IP, ShowInWidget: b.ShowInWidget})
	}
	s.mu.RUnlock()

	s.cfg.Bulbs = out
	if err := s.cfg.Save(); err != nil {
		return errors.LogErrorAndReturn(s.logger, errors.WrapErrorf(err, "failed to save bulbs"), "bulb: save failed")
	}
	s.mu.Lock()
	s.unsaved = false
	s.mu.Unlock()
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.bulbs, func(b Bulb) bool { return b.ID == id })
}

func normalizeIP(ip string) (string, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return "", nil
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", errors.InvalidInputf("invalid ip address %q", ip)
	}
	return addr.String(), nil
}

func discoveredName(ip string) string {
	if addr, err := netip.ParseAddr(ip); err == nil && addr.Is4() {
		return fmt.Sprintf("WiZ %d", addr.As4()[3])
	}
	return "WiZ " + ip
}
