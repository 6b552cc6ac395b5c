// ABOUTME: MPRIS media session adapter over D-Bus
// ABOUTME: Best-effort: a missing session bus leaves the player fully functional
package mediasession

import (
	"log"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const (
	busName     = "org.mpris.MediaPlayer2.platter"
	objectPath  = "/org/mpris/MediaPlayer2"
	rootIface   = "org.mpris.MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

// Controls are the player operations the OS media surface maps onto.
type Controls interface {
	Play()
	Pause()
	PlayPause()
	Next()
	Previous()
}

// NowPlaying is the metadata published on track change.
type NowPlaying struct {
	TrackID string
	Title   string
	Artist  string
	Album   string
	ArtPath string // path to a cached cover file, may be empty
}

// Session exports the player on the session bus. All publishing methods
// are no-ops when the bus is unavailable.
type Session struct {
	conn      *dbus.Conn
	props     *prop.Properties
	supported bool
}

// New connects to the session bus and exports the MPRIS interfaces.
// Connection failure is not an error: the session reports unsupported
// and every method becomes a no-op.
func New(controls Controls) *Session {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Printf("Media session unavailable: %v", err)
		return &Session{}
	}

	s := &Session{conn: conn}
	if err := s.export(controls); err != nil {
		log.Printf("Media session export failed: %v", err)
		conn.Close()
		return &Session{}
	}

	s.supported = true
	log.Printf("Media session registered as %s", busName)
	return s
}

func (s *Session) export(controls Controls) error {
	reply, err := s.conn.RequestName(busName, dbus.NameFlagReplaceExisting)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Printf("Media session: bus name %s already owned", busName)
	}

	h := &handler{controls: controls}
	if err := s.conn.Export(h, objectPath, playerIface); err != nil {
		return err
	}
	if err := s.conn.Export(struct{}{}, objectPath, rootIface); err != nil {
		return err
	}

	propsSpec := map[string]map[string]*prop.Prop{
		rootIface: {
			"Identity":            {Value: "Platter", Writable: false, Emit: prop.EmitTrue},
			"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitTrue},
			"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitTrue},
			"SupportedUriSchemes": {Value: []string{}, Writable: false, Emit: prop.EmitTrue},
			"SupportedMimeTypes":  {Value: []string{"audio/mpeg", "audio/ogg", "audio/wav"}, Writable: false, Emit: prop.EmitTrue},
		},
		playerIface: {
			"PlaybackStatus": {Value: "Stopped", Writable: false, Emit: prop.EmitTrue},
			"Metadata":       {Value: map[string]dbus.Variant{}, Writable: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanPause":       {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanControl":     {Value: true, Writable: false, Emit: prop.EmitTrue},
		},
	}

	props, err := prop.Export(s.conn, objectPath, propsSpec)
	if err != nil {
		return err
	}
	s.props = props
	return nil
}

// Supported reports whether the media session is live on the bus.
func (s *Session) Supported() bool {
	return s.supported
}

// SetNowPlaying publishes track metadata.
func (s *Session) SetNowPlaying(np NowPlaying) {
	if !s.supported {
		return
	}

	meta := Metadata(np)
	if err := s.props.Set(playerIface, "Metadata", dbus.MakeVariant(meta)); err != nil {
		log.Printf("Media session metadata update failed: %v", err)
	}
}

// SetPlaybackStatus publishes Playing or Paused.
func (s *Session) SetPlaybackStatus(playing bool) {
	if !s.supported {
		return
	}

	status := "Paused"
	if playing {
		status = "Playing"
	}
	if err := s.props.Set(playerIface, "PlaybackStatus", dbus.MakeVariant(status)); err != nil {
		log.Printf("Media session status update failed: %v", err)
	}
}

// Close releases the bus name and connection.
func (s *Session) Close() {
	if !s.supported {
		return
	}
	if _, err := s.conn.ReleaseName(busName); err != nil {
		log.Printf("Media session release failed: %v", err)
	}
	s.conn.Close()
	s.supported = false
}

// Metadata builds the MPRIS metadata map for a track.
func Metadata(np NowPlaying) map[string]dbus.Variant {
	meta := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/platterfm/platter/track/" + sanitizeTrackID(np.TrackID))),
		"xesam:title":   dbus.MakeVariant(np.Title),
		"xesam:artist":  dbus.MakeVariant([]string{np.Artist}),
	}
	if np.Album != "" {
		meta["xesam:album"] = dbus.MakeVariant(np.Album)
	}
	if np.ArtPath != "" {
		meta["mpris:artUrl"] = dbus.MakeVariant("file://" + np.ArtPath)
	}
	return meta
}

// sanitizeTrackID makes a UUID usable inside a D-Bus object path.
func sanitizeTrackID(id string) string {
	if id == "" {
		return "none"
	}
	out := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// handler receives MPRIS method calls and forwards them to the player.
type handler struct {
	controls Controls
}

func (h *handler) Play() *dbus.Error {
	h.controls.Play()
	return nil
}

func (h *handler) Pause() *dbus.Error {
	h.controls.Pause()
	return nil
}

func (h *handler) PlayPause() *dbus.Error {
	h.controls.PlayPause()
	return nil
}

func (h *handler) Next() *dbus.Error {
	h.controls.Next()
	return nil
}

func (h *handler) Previous() *dbus.Error {
	h.controls.Previous()
	return nil
}

func (h *handler) Stop() *dbus.Error {
	h.controls.Pause()
	return nil
}
