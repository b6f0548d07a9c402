// Package s3 reads objects from Amazon S3 and S3-compatible services
// using the AWS SDK v2.
//
// Documents are uploaded by other services; this package only opens and
// inspects them:
//
//	store, err := s3.New(ctx, s3.Config{
//		Bucket:         "receipts",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000",
//		AccessKeyID:    "minioadmin",
//		SecretKey:      "minioadmin",
//		ForcePathStyle: true,
//	})
//	if err != nil {
//		return err
//	}
//
//	obj, err := store.Open(ctx, "companies/42/receipt.pdf")
//	if errors.Is(err, s3.ErrObjectNotFound) {
//		// 404
//	}
//	defer obj.Body.Close()
//
// SDK errors are classified into ErrObjectNotFound, ErrBucketNotFound,
// ErrAccessDenied, ErrServiceUnavailable, ErrOperationTimeout and
// ErrOperationCanceled. Other API errors keep their code in the message.
package s3
