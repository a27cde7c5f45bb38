package gallery

// BatchIDsRequest is the payload for the batch publish and batch
// delete endpoints. Duplicate ids are permitted; each occurrence is
// applied independently.
type BatchIDsRequest struct {
	IDs []int64 `json:"ids"`
}

func (r BatchIDsRequest) Validate() error {
	if len(r.IDs) == 0 {
		return ErrIDsRequired
	}
	return nil
}

// BatchEditItem is one entry of a batch edit payload. Pointer fields
// distinguish absent keys from zero values.
type BatchEditItem struct {
	ID      *int64  `json:"id"`
	Caption *string `json:"caption"`
}

// BatchEditRequest is the payload for the batch edit endpoint.
type BatchEditRequest []BatchEditItem

// Validate checks every item before any of them is applied: one bad
// item rejects the whole request.
func (r BatchEditRequest) Validate() error {
	for _, item := range r {
		if item.ID == nil {
			return ErrIDRequired
		}
		if item.Caption == nil {
			return ErrCaptionRequired
		}
		if len(*item.Caption) > MaxCaptionLen {
			return ErrCaptionTooLong
		}
	}
	return nil
}

// EditPhoto is a validated batch edit item.
type EditPhoto struct {
	ID      int64
	Caption string
}

// Items converts a validated request into edit items, preserving the
// input order.
func (r BatchEditRequest) Items() []EditPhoto {
	items := make([]EditPhoto, 0, len(r))
	for _, item := range r {
		items = append(items, EditPhoto{ID: *item.ID, Caption: *item.Caption})
	}
	return items
}
