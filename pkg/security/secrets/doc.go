// Package secrets supplies the model endpoint credential.
//
// Two sources are provided. StaticToken wraps a value taken from
// configuration or the environment (DATABRICKS_PAT, AYA_MODEL_TOKEN).
// FileToken reads a mounted secret file and, when watching is enabled,
// re-reads it after the file changes, so a rotated personal access token
// takes effect without a restart:
//
//	src, err := secrets.NewFileToken("/var/run/secrets/aya/token", true)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	token, err := src.Token(ctx)
//
// Token files must have 0600 or 0400 permissions. Whitespace around the
// value is trimmed.
package secrets
