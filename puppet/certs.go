package puppet

import (
	"context"
	"strings"

	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/facterr"
)

// localCertSignatures maps the digest of every trusted certificate to its
// path. On a digest collision the file scanned later wins.
func localCertSignatures(deps Deps, opts Options) (*fact.Definition, error) {
	cfg := fact.NewConfig()
	cfg.SetName(FactLocalCertSignatures)
	cfg.SetDescription("MD5 digest to path of certificates in " + opts.TrustDir)
	cfg.SetCompute(func(ctx context.Context, _ fact.Resolver) (fact.Value, error) {
		files, err := deps.Files.ListRegularFiles(opts.TrustDir)
		if err != nil {
			return fact.Unavailable(), facterr.New(FactLocalCertSignatures, "scan", facterr.ErrCodeMissingFile,
				"cannot list trust directory").WithCause(err)
		}

		signatures := make(map[string]string, len(files))
		for _, path := range files {
			if strings.HasSuffix(path, opts.ExcludedSuffix) {
				continue
			}
			data, err := deps.Files.ReadFile(path)
			if err != nil {
				return fact.Unavailable(), facterr.New(FactLocalCertSignatures, "read", facterr.ErrCodeMissingFile,
					"cannot read certificate").WithCause(err).WithDetails(map[string]any{"path": path})
			}
			signatures[deps.Hasher.Digest(data)] = path
		}

		if len(signatures) == 0 {
			return fact.Unavailable(), nil
		}
		return fact.Mapping(signatures), nil
	})
	return fact.New(cfg)
}
