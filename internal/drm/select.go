package drm

// CaptureProbe is supplied by the caller (internal/capture) to avoid an
// import cycle: SelectCard only needs "does this card yield a non-empty
// image", not the capture package's full surface.
type CaptureProbe func(cardPath string, crtcID uint32) (nonEmpty bool)

// SelectCard implements spec §4.F's select_card: for each candidate, find
// the first CRTC with mode_valid true (or fall back to CrtcID 2), then
// probe it via capture. Returns the first candidate that probes non-empty.
func SelectCard(candidates []string, probe CaptureProbe) (string, uint32, bool) {
	for _, card := range candidates {
		crtcs, err := ListCrtcs(card)
		if err != nil {
			continue
		}

		crtcID := uint32(fallbackCrtcID)
		for _, c := range crtcs {
			if c.ModeValid {
				crtcID = c.ID
				break
			}
		}

		if probe(card, crtcID) {
			return card, crtcID, true
		}
	}
	return "", 0, false
}
