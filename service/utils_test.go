package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"testing"
)

func TestStringSet(t *testing.T) {
	ss := StringSet{}
	ss.Push("ASCENDING")
	ss.Push("DESCENDING")
	ss.Push("ASCENDING")
	if !ss.Exists("ASCENDING") {
		t.Error("ASCENDING not found")
	}
	sl := ss.Slice()
	sort.Strings(sl)
	if len(sl) != 2 || sl[0] != "ASCENDING" || sl[1] != "DESCENDING" {
		t.Errorf("unexpected slice: %v", sl)
	}
	ss.Pop("ASCENDING")
	if ss.Exists("ASCENDING") {
		t.Error("ASCENDING still in set")
	}
}

func TestPermanent(t *testing.T) {
	err := fmt.Errorf("Permanent error")
	if Temporary(err) {
		t.Fail()
	}
	err = &url.Error{Err: err}
	if Temporary(err) {
		t.Fail()
	}
}

func TestTemporary(t *testing.T) {
	err := MakeTemporary(fmt.Errorf("Temporary error"))
	if !Temporary(err) {
		t.Fail()
	}
	err = fmt.Errorf("Warp: %w", err)
	if !Temporary(err) {
		t.Fail()
	}
	if !Temporary(context.Canceled) {
		t.Fail()
	}
	if !Temporary(context.DeadlineExceeded) {
		t.Fail()
	}
	err = fmt.Errorf("Warp: %w", &url.Error{Err: err})
	if !Temporary(err) {
		t.Fail()
	}
}
