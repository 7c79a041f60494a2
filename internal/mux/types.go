package mux

// Upload is a provider-side direct upload: a short-lived, single-use
// destination for raw video bytes.
type Upload struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	AssetID string `json:"asset_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Asset is the provider's representation of a processed (or processing)
// video. Status is one of "preparing", "ready" or "errored".
type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
	Duration    float64      `json:"duration,omitempty"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy,omitempty"`
}

type createUploadRequest struct {
	CORSOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

type newAssetSettings struct {
	PlaybackPolicies []string `json:"playback_policies"`
	NormalizeAudio   bool     `json:"normalize_audio"`
}

type uploadEnvelope struct {
	Data Upload `json:"data"`
}

type assetEnvelope struct {
	Data Asset `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Type     string   `json:"type"`
		Messages []string `json:"messages"`
	} `json:"error"`
}
