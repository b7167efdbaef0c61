/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EDIT THIS FILE!  THIS IS SCAFFOLDING FOR YOU TO OWN!
// NOTE: json tags are required.  Any new fields you add must have json tags for the fields to be serialized.

// Finalizer is added to a CdkTsStack while a deployed AWS stack may still
// exist, so the controller gets a chance to run `cdk destroy` before the
// object is removed from etcd.
const Finalizer = "cdkstack.awscdk.dev/finalizer"

// Phase values. These form a finite set; the controller never writes a
// phase string that is not one of these.
const (
	PhaseCloning         = "Cloning"
	PhaseInstalling      = "Installing"
	PhaseDeploying       = "Deploying"
	PhaseSucceeded       = "Succeeded"
	PhaseFailed          = "Failed"
	PhaseDeleting        = "Deleting"
	PhaseDriftChecking   = "DriftChecking"
	PhaseGitSyncChecking = "GitSyncChecking"
)

// GitSource describes where to shallow-clone the CDK project from.
type GitSource struct {
	// Repository is the Git repository URL (https or ssh).
	//+kubebuilder:validation:MinLength=1
	Repository string `json:"repository"`

	// Ref is the branch, tag, or commit to clone.
	//+kubebuilder:default="main"
	//+optional
	Ref string `json:"ref,omitempty"`

	// SSHSecretName names a kubernetes.io/ssh-auth Secret in the same
	// namespace, used for private repositories cloned over ssh.
	//+optional
	SSHSecretName string `json:"sshSecretName,omitempty"`
}

// StackSource wraps the supported source types. Only Git is implemented;
// the struct leaves room for future source kinds without a breaking change.
type StackSource struct {
	// Git configures a Git-hosted CDK project as the stack's source.
	Git GitSource `json:"git"`
}

// StackActions gates which AWS-side operations this resource is permitted
// to perform. Every gate defaults to false: an operator must opt in.
type StackActions struct {
	// Deploy permits the reconciler to run `cdk deploy`.
	//+optional
	Deploy bool `json:"deploy,omitempty"`

	// Destroy permits running `cdk destroy` when the resource is deleted.
	// When false, deletion removes the finalizer without touching AWS,
	// intentionally orphaning the stack.
	//+optional
	Destroy bool `json:"destroy,omitempty"`

	// DriftDetection permits the drift sweeper to check this resource.
	//+optional
	DriftDetection bool `json:"driftDetection,omitempty"`

	// AutoRedeploy permits the Git-sync sweeper to redeploy automatically
	// when the deployed template has drifted from the latest Git ref.
	// Has no effect unless Deploy is also true.
	//+optional
	AutoRedeploy bool `json:"autoRedeploy,omitempty"`
}

// LifecycleHooks holds optional shell script bodies run at named stages.
// Every hook is best-effort: a non-zero exit is logged and eventized but
// never fails the surrounding operation.
type LifecycleHooks struct {
	//+optional
	BeforeDeploy string `json:"beforeDeploy,omitempty"`
	//+optional
	AfterDeploy string `json:"afterDeploy,omitempty"`
	//+optional
	BeforeDestroy string `json:"beforeDestroy,omitempty"`
	//+optional
	AfterDestroy string `json:"afterDestroy,omitempty"`
	//+optional
	BeforeDriftDetection string `json:"beforeDriftDetection,omitempty"`
	//+optional
	AfterDriftDetection string `json:"afterDriftDetection,omitempty"`
	//+optional
	BeforeGitSync string `json:"beforeGitSync,omitempty"`
	//+optional
	AfterGitSync string `json:"afterGitSync,omitempty"`
}

// CdkTsStackSpec defines the desired state of a CdkTsStack.
type CdkTsStackSpec struct {
	// StackName is the CloudFormation stack identifier. If empty, every CDK
	// invocation targets "all stacks" in the app (`cdk --all`).
	//+optional
	StackName string `json:"stackName,omitempty"`

	// CredentialsSecretName names an Opaque Secret in this resource's
	// namespace holding AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and
	// optionally AWS_SESSION_TOKEN.
	//+kubebuilder:validation:MinLength=1
	CredentialsSecretName string `json:"credentialsSecretName"`

	// AWSRegion is the target AWS region.
	//+kubebuilder:default="us-east-1"
	//+optional
	AWSRegion string `json:"awsRegion,omitempty"`

	// Source describes where the CDK project lives.
	Source StackSource `json:"source"`

	// Path is the subdirectory inside the repository holding the CDK
	// project (the directory containing cdk.json).
	//+kubebuilder:default="."
	//+optional
	Path string `json:"path,omitempty"`

	// CdkContext is an ordered sequence of "key=value" strings, each
	// passed as a separate `--context` flag to every CDK invocation.
	//+optional
	CdkContext []string `json:"cdkContext,omitempty"`

	// Actions gates which AWS-side operations are permitted.
	//+optional
	Actions StackActions `json:"actions,omitempty"`

	// LifecycleHooks are optional shell script bodies run at named stages.
	//+optional
	LifecycleHooks LifecycleHooks `json:"lifecycleHooks,omitempty"`
}

// CdkTsStackStatus defines the observed state of a CdkTsStack.
type CdkTsStackStatus struct {
	// Phase is one of the finite phase values (see the Phase* constants).
	//+optional
	Phase string `json:"phase,omitempty"`

	// Message is a short human description of the current phase.
	//+optional
	Message string `json:"message,omitempty"`

	// LastDeploy is set exactly when a transition into Succeeded follows a
	// Deploying phase (a successful `cdk deploy`, including auto-redeploy).
	//+optional
	LastDeploy *metav1.Time `json:"lastDeploy,omitempty"`

	// LastDriftCheck is the timestamp of the most recently completed drift
	// check, successful or not.
	//+optional
	LastDriftCheck *metav1.Time `json:"lastDriftCheck,omitempty"`

	// DriftDetected reflects the outcome of the most recent drift check.
	// It never implies an automatic mutation of AWS resources.
	//+optional
	DriftDetected bool `json:"driftDetected,omitempty"`

	// Conditions represent the latest available observations of auxiliary
	// state (e.g. credential validity) that doesn't fit the phase enum.
	//+optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:shortName=cdk
//+kubebuilder:printcolumn:name="Stack",type=string,JSONPath=`.spec.stackName`
//+kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
//+kubebuilder:printcolumn:name="Drift",type=boolean,JSONPath=`.status.driftDetected`
//+kubebuilder:printcolumn:name="LastDeploy",type=date,JSONPath=`.status.lastDeploy`
//+kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// CdkTsStack is the Schema for the cdktsstacks API
type CdkTsStack struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CdkTsStackSpec   `json:"spec,omitempty"`
	Status CdkTsStackStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// CdkTsStackList contains a list of CdkTsStack
type CdkTsStackList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CdkTsStack `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CdkTsStack{}, &CdkTsStackList{})
}

// EffectiveRef returns spec.source.git.ref, defaulted to "main".
func (c *CdkTsStack) EffectiveRef() string {
	if c.Spec.Source.Git.Ref == "" {
		return "main"
	}
	return c.Spec.Source.Git.Ref
}

// EffectivePath returns spec.path, defaulted to ".".
func (c *CdkTsStack) EffectivePath() string {
	if c.Spec.Path == "" {
		return "."
	}
	return c.Spec.Path
}

// EffectiveRegion returns spec.awsRegion, defaulted to "us-east-1".
func (c *CdkTsStack) EffectiveRegion() string {
	if c.Spec.AWSRegion == "" {
		return "us-east-1"
	}
	return c.Spec.AWSRegion
}
