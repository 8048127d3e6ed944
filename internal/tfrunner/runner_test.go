package tfrunner_test

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/internal/prompt"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

type call struct {
	quiet bool
	args  []string
}

func (c call) verb() string { return c.args[0] }

type fakeExec struct {
	calls  []call
	failOn string
}

func (f *fakeExec) record(quiet bool, args []string) error {
	f.calls = append(f.calls, call{quiet: quiet, args: args})
	if f.failOn != "" && args[0] == f.failOn {
		return errors.Newf("%s failed", args[0])
	}
	return nil
}

func (f *fakeExec) Run(_ context.Context, _, _ string, args ...string) error {
	return f.record(false, args)
}

func (f *fakeExec) RunQuiet(_ context.Context, _, _ string, args ...string) error {
	return f.record(true, args)
}

func (f *fakeExec) verbs() []string {
	verbs := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		verbs = append(verbs, c.verb())
	}
	return verbs
}

func (f *fakeExec) byVerb(verb string) (call, bool) {
	for _, c := range f.calls {
		if c.verb() == verb {
			return c, true
		}
	}
	return call{}, false
}

func testOptions() tfrunner.Options {
	return tfrunner.Options{
		Bin:         "terraform",
		Dir:         "/work/terraform",
		VarFile:     "terraform.tfvars",
		StateBucket: "acme.streamwatch.terraform.state",
		StateKey:    "streamwatch_state/terraform.tfstate",
		Region:      "us-east-1",
		KMSKeyID:    "alias/streamwatch_secrets",
	}
}

func TestPlanApplyHappyPath(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{}
	prompter := &prompt.Scripted{Answers: []bool{true}}
	runner := tfrunner.NewWithExec(testOptions(), execer, prompter, zap.NewNop().Sugar())

	applied, err := runner.PlanApply(context.Background(), tfrunner.PlanApplyOptions{
		Targets: []string{"module.kinesis_prod", "module.kinesis_staging"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Error("expected applied=true")
	}

	want := []string{"remote", "get", "plan", "apply"}
	if got := execer.verbs(); !reflect.DeepEqual(got, want) {
		t.Errorf("command sequence: got %v, want %v", got, want)
	}

	plan, _ := execer.byVerb("plan")
	wantPlan := []string{
		"plan", "-var-file=../terraform.tfvars",
		"-target=module.kinesis_prod", "-target=module.kinesis_staging",
	}
	if !reflect.DeepEqual(plan.args, wantPlan) {
		t.Errorf("plan args: got %v, want %v", plan.args, wantPlan)
	}

	// Apply reuses the exact planned target list.
	apply, _ := execer.byVerb("apply")
	wantApply := []string{
		"apply", "-var-file=../terraform.tfvars",
		"-target=module.kinesis_prod", "-target=module.kinesis_staging",
	}
	if !reflect.DeepEqual(apply.args, wantApply) {
		t.Errorf("apply args: got %v, want %v", apply.args, wantApply)
	}
}

func TestPlanApplyNoTargetsFullGraph(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{}
	prompter := &prompt.Scripted{Answers: []bool{true}}
	runner := tfrunner.NewWithExec(testOptions(), execer, prompter, zap.NewNop().Sugar())

	if _, err := runner.PlanApply(context.Background(), tfrunner.PlanApplyOptions{}); err != nil {
		t.Fatal(err)
	}

	plan, _ := execer.byVerb("plan")
	for _, arg := range plan.args {
		if strings.HasPrefix(arg, "-target=") {
			t.Errorf("unrestricted plan must carry no target flags, got %v", plan.args)
		}
	}
}

func TestPlanFailureNeverPrompts(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{failOn: "plan"}
	prompter := &prompt.Scripted{}
	runner := tfrunner.NewWithExec(testOptions(), execer, prompter, zap.NewNop().Sugar())

	applied, err := runner.PlanApply(context.Background(), tfrunner.PlanApplyOptions{})
	if err == nil {
		t.Fatal("expected error from failed plan")
	}
	if applied {
		t.Error("expected applied=false")
	}
	if prompter.Calls != 0 {
		t.Errorf("prompter invoked %d times after failed plan, want 0", prompter.Calls)
	}
	if _, ok := execer.byVerb("apply"); ok {
		t.Error("apply must not run after a failed plan")
	}
}

func TestRejectionIssuesNoMutation(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{}
	prompter := &prompt.Scripted{Answers: []bool{false}}
	runner := tfrunner.NewWithExec(testOptions(), execer, prompter, zap.NewNop().Sugar())

	applied, err := runner.PlanApply(context.Background(), tfrunner.PlanApplyOptions{})
	if err != nil {
		t.Fatalf("rejection is not an error, got: %v", err)
	}
	if applied {
		t.Error("expected applied=false")
	}
	for _, verb := range execer.verbs() {
		if verb == "apply" || verb == "destroy" {
			t.Errorf("mutating verb %q ran after rejection", verb)
		}
	}
}

func TestDestroyPlansInDestructiveMode(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{}
	prompter := &prompt.Scripted{Answers: []bool{true}}
	runner := tfrunner.NewWithExec(testOptions(), execer, prompter, zap.NewNop().Sugar())

	applied, err := runner.PlanApply(context.Background(), tfrunner.PlanApplyOptions{
		Destroy:     true,
		SkipRefresh: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Error("expected applied=true")
	}

	// No remote state refresh in destroy mode.
	want := []string{"get", "plan", "destroy"}
	if got := execer.verbs(); !reflect.DeepEqual(got, want) {
		t.Errorf("command sequence: got %v, want %v", got, want)
	}

	plan, _ := execer.byVerb("plan")
	if plan.args[len(plan.args)-1] != "-destroy" {
		t.Errorf("destroy plan must end with -destroy, got %v", plan.args)
	}

	destroy, _ := execer.byVerb("destroy")
	for _, arg := range destroy.args {
		if arg == "-destroy" {
			t.Errorf("-destroy is a plan flag, not a destroy flag: %v", destroy.args)
		}
	}
}

func TestModuleResolutionFailureIsFatal(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{failOn: "get"}
	prompter := &prompt.Scripted{}
	runner := tfrunner.NewWithExec(testOptions(), execer, prompter, zap.NewNop().Sugar())

	if _, err := runner.PlanApply(context.Background(), tfrunner.PlanApplyOptions{SkipRefresh: true}); err == nil {
		t.Fatal("expected error when module resolution fails")
	}
	if _, ok := execer.byVerb("plan"); ok {
		t.Error("plan must not run after failed module resolution")
	}
}

func TestConfigureRemoteStateArgs(t *testing.T) {
	t.Parallel()

	execer := &fakeExec{}
	runner := tfrunner.NewWithExec(testOptions(), execer, &prompt.Scripted{}, zap.NewNop().Sugar())

	if err := runner.ConfigureRemoteState(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(execer.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(execer.calls))
	}
	got := execer.calls[0]
	if !got.quiet {
		t.Error("remote state configuration should run quietly")
	}
	want := []string{
		"remote", "config",
		"-backend=s3",
		"-backend-config=bucket=acme.streamwatch.terraform.state",
		"-backend-config=key=streamwatch_state/terraform.tfstate",
		"-backend-config=region=us-east-1",
		"-backend-config=kms_key_id=alias/streamwatch_secrets",
		"-backend-config=encrypt=true",
	}
	if !reflect.DeepEqual(got.args, want) {
		t.Errorf("got %v, want %v", got.args, want)
	}
}
