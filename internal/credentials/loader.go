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

// Package credentials materializes AWS environment variables from a
// referenced Opaque Secret, and scrubs them after use.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// verifyCallerIdentityTimeout bounds the supplemental STS pre-flight so a
// network-unreachable control plane cannot stall a reconcile indefinitely.
const verifyCallerIdentityTimeout = 15 * time.Second

// ErrSecretMissing means the named Secret does not exist.
var ErrSecretMissing = errors.New("credentials secret not found")

// ErrSecretMalformed means the Secret exists but lacks a required key.
var ErrSecretMalformed = errors.New("credentials secret missing required key")

const (
	keyAccessKeyID     = "AWS_ACCESS_KEY_ID"
	keySecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	keySessionToken    = "AWS_SESSION_TOKEN"

	// sshPrivateKeyField is the data key kubernetes.io/ssh-auth secrets carry.
	sshPrivateKeyField = "ssh-privatekey"
)

// Credentials holds the decoded contents of a credentials Secret.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}

// EnvVars renders the credentials (and CDK's expected account/region
// mirrors) as NAME=VALUE pairs suitable for exec.Cmd.Env. accountID may be
// empty if it was not resolved (e.g. the Verify pre-flight was skipped).
func (c Credentials) EnvVars(accountID string) []string {
	env := []string{
		keyAccessKeyID + "=" + c.AccessKeyID,
		keySecretAccessKey + "=" + c.SecretAccessKey,
		"AWS_REGION=" + c.Region,
		"AWS_DEFAULT_REGION=" + c.Region,
	}
	if c.SessionToken != "" {
		env = append(env, keySessionToken+"="+c.SessionToken)
	}
	if accountID != "" {
		env = append(env,
			"CDK_DEFAULT_ACCOUNT="+accountID,
			"AWS_ACCOUNT_ID="+accountID,
			"AWS_ACCOUNT="+accountID,
		)
	}
	return env
}

// Scrub zeroes the in-memory credential material. Every caller that loads
// Credentials must call Scrub on every exit path (including panics, via
// defer) so no copy of the secret outlives the operation that needed it.
func (c *Credentials) Scrub() {
	c.AccessKeyID = ""
	c.SecretAccessKey = ""
	c.SessionToken = ""
}

// Loader reads AWS credentials out of a Kubernetes Secret.
type Loader struct {
	Client client.Client
}

// Load fetches namespace/secretName, decodes the three well-known keys, and
// returns ErrSecretMissing or ErrSecretMalformed (wrapped with the offending
// key name) as appropriate.
func (l *Loader) Load(ctx context.Context, namespace, secretName, region string) (Credentials, error) {
	secret := &corev1.Secret{}
	key := types.NamespacedName{Namespace: namespace, Name: secretName}
	if err := l.Client.Get(ctx, key, secret); err != nil {
		if apierrors.IsNotFound(err) {
			return Credentials{}, fmt.Errorf("%w: %s/%s", ErrSecretMissing, namespace, secretName)
		}
		return Credentials{}, fmt.Errorf("reading credentials secret %s/%s: %w", namespace, secretName, err)
	}

	accessKey, ok := secret.Data[keyAccessKeyID]
	if !ok || len(accessKey) == 0 {
		return Credentials{}, fmt.Errorf("%w: %s", ErrSecretMalformed, keyAccessKeyID)
	}
	secretKey, ok := secret.Data[keySecretAccessKey]
	if !ok || len(secretKey) == 0 {
		return Credentials{}, fmt.Errorf("%w: %s", ErrSecretMalformed, keySecretAccessKey)
	}

	return Credentials{
		AccessKeyID:     string(accessKey),
		SecretAccessKey: string(secretKey),
		SessionToken:    string(secret.Data[keySessionToken]),
		Region:          region,
	}, nil
}

// WriteSSHKey reads the named kubernetes.io/ssh-auth Secret and writes its
// private key to a mode-0600 temporary file for git to use over
// GIT_SSH_COMMAND. The returned cleanup removes the file; callers defer it
// so the key never outlives the clone that needed it.
func (l *Loader) WriteSSHKey(ctx context.Context, namespace, secretName string) (string, func(), error) {
	secret := &corev1.Secret{}
	key := types.NamespacedName{Namespace: namespace, Name: secretName}
	if err := l.Client.Get(ctx, key, secret); err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil, fmt.Errorf("%w: %s/%s", ErrSecretMissing, namespace, secretName)
		}
		return "", nil, fmt.Errorf("reading ssh secret %s/%s: %w", namespace, secretName, err)
	}

	material, ok := secret.Data[sshPrivateKeyField]
	if !ok || len(material) == 0 {
		return "", nil, fmt.Errorf("%w: %s", ErrSecretMalformed, sshPrivateKeyField)
	}

	f, err := os.CreateTemp("", "cdk-ssh-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating ssh key file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(material); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("writing ssh key file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("closing ssh key file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("restricting ssh key file: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}

// VerifyCallerIdentity performs one sts:GetCallerIdentity call with the
// loaded credentials and returns the resolved AWS account ID, which the
// callers mirror into CDK_DEFAULT_ACCOUNT and friends. It also surfaces a
// bad or expired secret within seconds, long before cdk itself would
// report "no credentials have been configured".
func VerifyCallerIdentity(ctx context.Context, c Credentials) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, verifyCallerIdentityTimeout)
	defer cancel()

	provider := credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken)
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(provider),
	)
	if err != nil {
		return "", fmt.Errorf("building AWS config: %w", err)
	}

	stsClient := sts.NewFromConfig(cfg)
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("sts:GetCallerIdentity: %w", err)
	}
	return aws.ToString(out.Account), nil
}
