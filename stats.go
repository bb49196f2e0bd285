package sdftext

// Stats are cumulative counters of a Renderer. Instances counts quads
// queued since the renderer was created, not per frame.
type Stats struct {
	Fonts         int
	Glyphs        int
	GlyphBytes    int
	Rasterized    int
	Populations   int
	Dropped       int
	Uploads       int
	UploadedBytes int
	CacheHits     int
	CacheMisses   int
	Instances     int
	// InstancesDropped counts quads refused by the per-frame cap.
	InstancesDropped int
	Frames           int
	AtlasUsed        float64
}
