package dispatch

// AlertLevel mirrors the TLS record-layer alert level byte (RFC 8446
// §6, carried forward unchanged from TLS 1.2's alert protocol).
type AlertLevel byte

const (
	AlertLevelWarning AlertLevel = 1
	AlertLevelFatal   AlertLevel = 2
)

// AlertDescription mirrors the TLS alert description byte. Only the
// values lurkr actually emits are named; the wire encoding supports the
// full IANA registry.
type AlertDescription byte

const (
	AlertUnrecognizedName AlertDescription = 112
)

const (
	tlsRecordTypeAlert byte = 21
	// TLS 1.2's wire version; alerts sent before/without a negotiated
	// version conventionally use this, matching widely deployed TLS
	// stacks' pre-handshake alert behavior.
	tlsVersionMajor byte = 3
	tlsVersionMinor byte = 3
)

// encodeAlert produces the wire bytes of a single-record TLS alert message:
// a 5-byte record header (type, version, length) followed by the
// 2-byte alert body (level, description).
func encodeAlert(level AlertLevel, desc AlertDescription) []byte {
	return []byte{
		tlsRecordTypeAlert,
		tlsVersionMajor, tlsVersionMinor,
		0x00, 0x02,
		byte(level), byte(desc),
	}
}
