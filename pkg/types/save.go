package types

import "time"

// SaveRecord is one archived save payload, as the host would keep it in its
// save-game companion data.
type SaveRecord struct {
	SaveID    string    // UUID v7, generated on first write.
	Name      string    // Save name, unique within the archive.
	Version   uint32    // Format version the payload was encoded with.
	Payload   []byte    // Encoded cycles and presets.
	CreatedAt time.Time // Timestamp of the first write.
	UpdatedAt time.Time // Timestamp of the last write.
}
