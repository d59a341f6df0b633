package tool

import (
	"context"
	"errors"
	"testing"
)

type echoReq struct {
	Owner string
	Count int64
}

var errBoom = errors.New("boom")

func echoTool(kind Kind) Tool {
	return Tool{
		Kind:        kind,
		Description: "echoes its decoded request",
		Schema: ObjectSchema(map[string]Property{
			"user_id": {Type: "string"},
			"count":   {Type: "integer"},
			"status":  {Type: "string", Enum: []string{"all", "pending", "completed"}},
		}, "user_id"),
		Decode: func(args Args) (any, error) {
			req := &echoReq{}
			req.Owner, _ = args.GetString("user_id")
			req.Count, _ = args.GetInt("count")
			return req, nil
		},
		Endpoint: func(ctx context.Context, request any) (any, error) {
			return request, nil
		},
	}
}

func failTool(kind Kind) Tool {
	t := echoTool(kind)
	t.Endpoint = func(ctx context.Context, request any) (any, error) {
		return nil, errBoom
	}
	return t
}

func setupRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(echoTool(KindAddTask), failTool(KindDeleteTask))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return reg
}

func TestNew_DuplicateName(t *testing.T) {
	_, err := New(echoTool(KindAddTask), echoTool(KindAddTask))
	if err == nil {
		t.Fatal("New with duplicate names succeeded, want error")
	}
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("New error = %T, want *DuplicateNameError", err)
	}
	if dup.Name != "add_task" {
		t.Errorf("DuplicateNameError.Name = %q, want %q", dup.Name, "add_task")
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	reg := setupRegistry(t)
	_, err := reg.Dispatch(context.Background(), "bogus", Args{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Dispatch error = %v, want *NotFoundError", err)
	}
	if got, want := nf.Error(), `tool "bogus" not found`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDispatch_DecodesAndRuns(t *testing.T) {
	reg := setupRegistry(t)
	resp, err := reg.Dispatch(context.Background(), "add_task", Args{
		"user_id": "u1",
		"count":   float64(3), // JSON numbers decode as float64
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	req, ok := resp.(*echoReq)
	if !ok {
		t.Fatalf("Dispatch response = %T, want *echoReq", resp)
	}
	if req.Owner != "u1" || req.Count != 3 {
		t.Errorf("decoded request = %+v, want Owner=u1 Count=3", req)
	}
}

func TestDispatch_SchemaViolations(t *testing.T) {
	reg := setupRegistry(t)
	tests := []struct {
		name  string
		args  Args
		field string
	}{
		{"missing required", Args{"count": float64(1)}, "user_id"},
		{"wrong type", Args{"user_id": 42}, "user_id"},
		{"fractional integer", Args{"user_id": "u1", "count": 1.5}, "count"},
		{"enum violation", Args{"user_id": "u1", "status": "nope"}, "status"},
		{"undeclared argument", Args{"user_id": "u1", "extra": true}, "extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Dispatch(context.Background(), "add_task", tt.args)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Dispatch error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestDispatch_EndpointErrorPropagates(t *testing.T) {
	reg := setupRegistry(t)
	_, err := reg.Dispatch(context.Background(), "delete_task", Args{"user_id": "u1"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Dispatch error = %v, want errBoom unchanged", err)
	}
}

func TestCall_SkipsValidation(t *testing.T) {
	reg := setupRegistry(t)
	want := &echoReq{Owner: "typed"}
	resp, err := reg.Call(context.Background(), KindAddTask, want)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got, ok := resp.(*echoReq); !ok || got != want {
		t.Errorf("Call response = %v, want the request echoed back", resp)
	}
}

func TestCall_UnknownKind(t *testing.T) {
	reg := setupRegistry(t)
	_, err := reg.Call(context.Background(), Kind(99), nil)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Call error = %v, want *NotFoundError", err)
	}
}

func TestTools_KindOrder(t *testing.T) {
	reg, err := New(echoTool(KindDeleteTask), echoTool(KindAddTask), echoTool(KindCompleteTask))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	for i := 0; i < 20; i++ {
		tools := reg.Tools()
		if len(tools) != 3 {
			t.Fatalf("Tools() returned %d tools, want 3", len(tools))
		}
		names := []string{tools[0].Name(), tools[1].Name(), tools[2].Name()}
		want := []string{"add_task", "complete_task", "delete_task"}
		for j := range want {
			if names[j] != want[j] {
				t.Fatalf("Tools() order = %v, want %v", names, want)
			}
		}
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindAddTask, "add_task"},
		{KindListTasks, "list_tasks"},
		{KindCompleteTask, "complete_task"},
		{KindUpdateTask, "update_task"},
		{KindDeleteTask, "delete_task"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
