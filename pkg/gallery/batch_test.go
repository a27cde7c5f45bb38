package gallery

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptrInt64(v int64) *int64    { return &v }
func ptrString(v string) *string { return &v }

func TestBatchIDsRequestValidate(t *testing.T) {
	table := []struct {
		label  string
		req    BatchIDsRequest
		expErr error
	}{
		{
			label:  "should reject a missing ids field",
			req:    BatchIDsRequest{},
			expErr: ErrIDsRequired,
		},
		{
			label:  "should reject an empty ids list",
			req:    BatchIDsRequest{IDs: []int64{}},
			expErr: ErrIDsRequired,
		},
		{
			label: "should accept a non-empty ids list",
			req:   BatchIDsRequest{IDs: []int64{1, 2, 1}},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			if err := ts.req.Validate(); err != ts.expErr {
				t.Fatalf("unexpected error returned: %v", err)
			}
		})
	}
}

func TestBatchEditRequestValidate(t *testing.T) {
	table := []struct {
		label  string
		req    BatchEditRequest
		expErr error
	}{
		{
			label: "should accept an empty batch",
			req:   BatchEditRequest{},
		},
		{
			label: "should accept valid items",
			req: BatchEditRequest{
				{ID: ptrInt64(1), Caption: ptrString("a")},
				{ID: ptrInt64(2), Caption: ptrString("b")},
			},
		},
		{
			label: "should reject an item without an id",
			req: BatchEditRequest{
				{ID: ptrInt64(1), Caption: ptrString("a")},
				{Caption: ptrString("b")},
			},
			expErr: ErrIDRequired,
		},
		{
			label: "should reject an item without a caption",
			req: BatchEditRequest{
				{ID: ptrInt64(1)},
			},
			expErr: ErrCaptionRequired,
		},
		{
			label: "should reject a caption over the length limit",
			req: BatchEditRequest{
				{ID: ptrInt64(1), Caption: ptrString(strings.Repeat("x", MaxCaptionLen+1))},
			},
			expErr: ErrCaptionTooLong,
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			if err := ts.req.Validate(); err != ts.expErr {
				t.Fatalf("unexpected error returned: %v", err)
			}
		})
	}
}

func TestBatchEditRequestItems(t *testing.T) {
	req := BatchEditRequest{
		{ID: ptrInt64(7), Caption: ptrString("x")},
		{ID: ptrInt64(3), Caption: ptrString("y")},
	}
	exp := []EditPhoto{
		{ID: 7, Caption: "x"},
		{ID: 3, Caption: "y"},
	}
	if got := req.Items(); !cmp.Equal(exp, got) {
		t.Fatalf("unexpected items returned: %s", cmp.Diff(exp, got))
	}
}
