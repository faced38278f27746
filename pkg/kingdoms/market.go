package kingdoms

// BuyItem purchases a catalogue item and equips it on a general.
func (e *Engine) BuyItem(w *World, factionID, generalID, itemID string) error {
	if !w.Resolution.Idle() {
		return ErrResolutionInProgress
	}
	it, ok := CatalogItem(itemID)
	if !ok {
		return reject("buy", "unknown item %s", itemID)
	}
	g := w.General(generalID)
	if g == nil || g.FactionID != factionID || g.State == StateCaptured {
		return reject("buy", "no general available")
	}
	f := w.Faction(factionID)
	if f == nil || f.Treasury.Gold < it.Price {
		return reject("buy", "insufficient gold")
	}
	spend(&f.Treasury.Gold, it.Price)
	g.Items = append(g.Items, it)
	return nil
}
