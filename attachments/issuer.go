// attachments/issuer.go
package attachments

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignAPI interface para abstrair (e mockar) o presign client do S3
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Attachment carrega as duas URLs do mesmo objeto: a de upload
// (pré-assinada, com validade) e a pública de leitura (estável).
// Ambas derivam do mesmo par bucket+key de uma única emissão — nunca
// são re-derivadas separadamente, para não haver risco de divergência.
type Attachment struct {
	UploadURL string
	PublicURL string
}

// Issuer emite URLs de upload pré-assinadas para anexos de todos.
//
// A chave do objeto é determinística, derivada do todoId ("<todoId>.jpg").
// URLs expiradas falham no próprio provedor de storage; esta camada não
// simula expiração.
type Issuer struct {
	presigner PresignAPI
	bucket    string
	ttl       time.Duration
}

func NewIssuer(presigner PresignAPI, bucket string, ttl time.Duration) *Issuer {
	return &Issuer{
		presigner: presigner,
		bucket:    bucket,
		ttl:       ttl,
	}
}

// Issue produz a URL de upload com validade fixa e a URL pública de
// leitura para o mesmo objeto. Não persiste nada.
func (i *Issuer) Issue(ctx context.Context, todoID string) (Attachment, error) {
	key := fmt.Sprintf("%s.jpg", todoID)

	req, err := i.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(i.ttl))
	if err != nil {
		return Attachment{}, fmt.Errorf("attachments: presign failed: %w", err)
	}

	return Attachment{
		UploadURL: req.URL,
		PublicURL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", i.bucket, key),
	}, nil
}
