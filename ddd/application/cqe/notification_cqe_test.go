package cqe

import (
	"reflect"
	"testing"
)

func TestCreateNotificationReqValidate(t *testing.T) {
	cases := []struct {
		name string
		req  *CreateNotificationReq
		want bool
	}{
		{"nil", nil, false},
		{"missing type", &CreateNotificationReq{}, false},
		{"type only", &CreateNotificationReq{Type: "new-comment"}, true},
		{"valid category", &CreateNotificationReq{Type: "new-comment", Category: "Comment"}, true},
		{"invalid category", &CreateNotificationReq{Type: "new-comment", Category: "comment"}, false},
		// 目标为空合法，入队时按空操作处理。
		{"no targets", &CreateNotificationReq{Type: "system-announcement"}, true},
	}
	for _, c := range cases {
		if got := c.req.Validate(); got != c.want {
			t.Errorf("%s: Validate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCreateNotificationReqTargets(t *testing.T) {
	req := &CreateNotificationReq{
		UserID:  7,
		UserIDs: []int64{3, 7, 0, -1, 3, 9},
	}
	got := req.Targets()
	want := []int64{7, 3, 9}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Targets() = %v, want %v", got, want)
	}

	if got := (&CreateNotificationReq{}).Targets(); len(got) != 0 {
		t.Fatalf("empty request Targets() = %v, want empty", got)
	}
}

func TestGetUserNotificationsReqNormalize(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 20},
		{-5, 20},
		{1, 1},
		{100, 100},
		{500, 100},
	}
	for _, c := range cases {
		r := &GetUserNotificationsReq{Limit: c.in}
		r.Normalize()
		if r.Limit != c.want {
			t.Errorf("Normalize(limit=%d) = %d, want %d", c.in, r.Limit, c.want)
		}
	}
}

func TestGetUserNotificationsReqValidate(t *testing.T) {
	if (*GetUserNotificationsReq)(nil).Validate() {
		t.Error("nil request should be invalid")
	}
	if !(&GetUserNotificationsReq{}).Validate() {
		t.Error("empty request should be valid")
	}
	if !(&GetUserNotificationsReq{Category: "Milestone"}).Validate() {
		t.Error("known category should be valid")
	}
	if (&GetUserNotificationsReq{Category: "nope"}).Validate() {
		t.Error("unknown category should be invalid")
	}
}

func TestMarkReadReqValidate(t *testing.T) {
	cases := []struct {
		name string
		req  *MarkReadReq
		want bool
	}{
		{"nil", nil, false},
		{"empty", &MarkReadReq{}, false},
		{"single", &MarkReadReq{ID: 12}, true},
		// 单条模式下分类没有意义。
		{"single with category", &MarkReadReq{ID: 12, Category: "Comment"}, false},
		{"all", &MarkReadReq{All: true}, true},
		{"all with category", &MarkReadReq{All: true, Category: "Comment"}, true},
		{"all with bad category", &MarkReadReq{All: true, Category: "bad"}, false},
	}
	for _, c := range cases {
		if got := c.req.Validate(); got != c.want {
			t.Errorf("%s: Validate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSettingReqsValidate(t *testing.T) {
	if (&CreateUserNotificationSettingReq{}).Validate() {
		t.Error("empty types should be invalid")
	}
	if (&CreateUserNotificationSettingReq{Types: []string{"new-comment", ""}}).Validate() {
		t.Error("blank type should be invalid")
	}
	if !(&CreateUserNotificationSettingReq{Types: []string{"new-comment"}}).Validate() {
		t.Error("single type should be valid")
	}
	if !(&DeleteUserNotificationSettingReq{Types: []string{"new-comment", "new-review"}}).Validate() {
		t.Error("multiple types should be valid")
	}
}
