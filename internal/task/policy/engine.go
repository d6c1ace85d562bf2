// Package policy decides who may do what to a task. Decisions are evaluated
// through an embedded OPA Rego policy so the rules live in one auditable
// document instead of being scattered through service code.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	userdomain "classtrack/backend/internal/user/domain"
)

// Actions understood by the policy.
const (
	ActionCreate           = "create"
	ActionUpdate           = "update"
	ActionToggleCompletion = "toggle_completion"
	ActionDelete           = "delete"
)

const policyQuery = "data.classtrack.tasks.allow"

const regoPolicy = `package classtrack.tasks

default allow = false

# Only teachers create tasks; created tasks are shared with the class.
allow if {
	input.action == "create"
	input.actor.role == "teacher"
}

# Owners update their own tasks with a full body, but a teacher may never
# mark a task completed: shared completion belongs to the students.
allow if {
	input.action == "update"
	input.task.owner_id == input.actor.id
	not teacher_completing
}

teacher_completing if {
	input.actor.role == "teacher"
	input.wants_completed
}

# A student flips their own completion flag on someone else's shared task.
allow if {
	input.action == "toggle_completion"
	input.actor.role == "student"
	input.task.shared
	input.task.owner_id != input.actor.id
}

# Owners delete private tasks; shared tasks additionally require the
# teacher role.
allow if {
	input.action == "delete"
	input.task.owner_id == input.actor.id
	not input.task.shared
}

allow if {
	input.action == "delete"
	input.task.owner_id == input.actor.id
	input.task.shared
	input.actor.role == "teacher"
}
`

// Actor is the authenticated subject a decision is made for.
type Actor struct {
	ID   string
	Role userdomain.Role
}

// TaskAttrs are the task attributes the policy inspects.
type TaskAttrs struct {
	OwnerID string
	Shared  bool
}

// Input is one access decision request.
type Input struct {
	Action         string
	Actor          Actor
	Task           TaskAttrs
	WantsCompleted bool
}

// Engine evaluates the embedded task access policy. The policy is compiled
// once at construction.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the embedded policy and prepares the allow query.
func NewEngine(ctx context.Context) (*Engine, error) {
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Module("tasks.rego", regoPolicy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile task policy: %w", err)
	}
	return &Engine{query: q}, nil
}

// Allow reports whether the action is permitted. A query that yields no
// result or a non-boolean is a deny.
func (e *Engine) Allow(ctx context.Context, in Input) (bool, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"action": in.Action,
		"actor": map[string]interface{}{
			"id":   in.Actor.ID,
			"role": string(in.Actor.Role),
		},
		"task": map[string]interface{}{
			"owner_id": in.Task.OwnerID,
			"shared":   in.Task.Shared,
		},
		"wants_completed": in.WantsCompleted,
	}))
	if err != nil {
		return false, fmt.Errorf("eval task policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}

// HealthCheck verifies the prepared query evaluates against a minimal input.
func (e *Engine) HealthCheck(ctx context.Context) error {
	_, err := e.Allow(ctx, Input{
		Action: ActionCreate,
		Actor:  Actor{ID: "health", Role: userdomain.RoleTeacher},
	})
	return err
}
