package semantic

// EventTable maps the surface event names the analyzer recognizes to
// their VM entry-block label. Names absent from this table still
// compile — they lower to an underscore-prefixed label and raise
// W0010 — but a name present here is known-good.
var EventTable = map[string]string{
	"Start":                  "_start",
	"Update":                 "_update",
	"LateUpdate":             "_lateUpdate",
	"FixedUpdate":            "_fixedUpdate",
	"Interact":               "_interact",
	"OnPickup":                "_onPickup",
	"OnDrop":                  "_onDrop",
	"OnPickupUseDown":         "_onPickupUseDown",
	"OnPickupUseUp":           "_onPickupUseUp",
	"OnPlayerJoined":          "_onPlayerJoined",
	"OnPlayerLeft":            "_onPlayerLeft",
	"OnPlayerTriggerEnter":    "_onPlayerTriggerEnter",
	"OnPlayerTriggerExit":     "_onPlayerTriggerExit",
	"OnPlayerCollisionEnter":  "_onPlayerCollisionEnter",
	"OnPlayerCollisionExit":   "_onPlayerCollisionExit",
	"OnTriggerEnter":          "_onTriggerEnter",
	"OnTriggerExit":           "_onTriggerExit",
	"OnCollisionEnter":        "_onCollisionEnter",
	"OnCollisionExit":         "_onCollisionExit",
	"OnPreSerialization":      "_onPreSerialization",
	"OnPostSerialization":     "_onPostSerialization",
	"OnDeserialization":       "_onDeserialization",
	"OnVariableChange":        "_onVariableChange",
	"InputJump":               "_inputJump",
	"InputUse":                "_inputUse",
	"InputGrab":               "_inputGrab",
	"InputDrop":               "_inputDrop",
	"InputMoveHorizontal":     "_inputMoveHorizontal",
	"InputMoveVertical":       "_inputMoveVertical",
	"InputLookHorizontal":     "_inputLookHorizontal",
	"InputLookVertical":       "_inputLookVertical",
	"OnMouseDown":             "_onMouseDown",
	"OnMouseUp":               "_onMouseUp",
	"OnDestroy":               "_onDestroy",
	"OnStringLoadSuccess":     "_onStringLoadSuccess",
	"OnStringLoadError":       "_onStringLoadError",
	"OnImageLoadSuccess":      "_onImageLoadSuccess",
	"OnImageLoadError":        "_onImageLoadError",
	"OnAudioClipLoadSuccess":  "_onAudioClipLoadSuccess",
	"OnAudioClipLoadError":    "_onAudioClipLoadError",
	"OnOwnershipRequest":      "_onOwnershipRequest",
	"OnOwnershipTransferred":  "_onOwnershipTransferred",
	"OnAvatarChanged":         "_onAvatarChanged",
	"OnVideoEnd":              "_onVideoEnd",
	"OnVideoError":            "_onVideoError",
	"OnVideoReady":            "_onVideoReady",
	"OnVideoPlay":             "_onVideoPlay",
}

// ImplicitParamTable maps download-completion event names to the
// catalog-qualified type of the `result` parameter the analyzer
// auto-binds when no explicit parameter shadows it. internal/lower
// consults the same table to allocate the implicit parameter's cell.
var ImplicitParamTable = map[string]string{
	"OnStringLoadSuccess":    "VRCSDK3ComponentsVideoIVRCStringDownloadResult",
	"OnStringLoadError":      "VRCSDK3ComponentsVideoIVRCStringDownloadException",
	"OnImageLoadSuccess":     "VRCSDK3ComponentsVideoIVRCImageDownloadResult",
	"OnImageLoadError":       "VRCSDK3ComponentsVideoIVRCImageDownloadException",
	"OnAudioClipLoadSuccess": "VRCSDK3ComponentsVideoIVRCAudioClipDownloadResult",
	"OnAudioClipLoadError":   "VRCSDK3ComponentsVideoIVRCAudioClipDownloadException",
}

// VMLabelFor returns the VM entry-block label for a surface event name,
// and whether the name was recognized. internal/lower calls this to
// label an event handler's block the same way the analyzer validated it.
func VMLabelFor(name string) (label string, known bool) {
	if l, ok := EventTable[name]; ok {
		return l, true
	}
	return "_" + name, false
}
