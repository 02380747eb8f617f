package core

type AssetAction int

const (
	ActionPassthrough AssetAction = iota
	ActionInline
	ActionEmitResource
	ActionEmbedSource
)

// DecideAsset picks how an asset module is emitted. Automatic assets are
// inlined while no larger than inlineLimit bytes.
func DecideAsset(assetType AssetType, size int, inlineLimit int) AssetAction {
	switch assetType {
	case AssetTypeInline:
		return ActionInline
	case AssetTypeResource:
		return ActionEmitResource
	case AssetTypeSource:
		return ActionEmbedSource
	case AssetTypeAuto:
		if size <= inlineLimit {
			return ActionInline
		}
		return ActionEmitResource
	default:
		return ActionPassthrough
	}
}
