// Package ocr recognizes text in the images a page draws.
//
// [EncodeImage] turns an image XObject into a file an OCR engine accepts:
// raw samples become a TIFF, JPEG and JPEG 2000 data pass through. A
// [Client] runs those files through Tesseract and satisfies
// text.ImageRecognizer, so it can be handed to the extractor:
//
//	client, err := ocr.New("eng", "deu")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	pages, err := pdfdevice.Load(pages...).Recognizer(client).PageTexts(ctx)
//
// Recognition needs the Tesseract libraries and the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag every Client operation returns [ErrOCRNotEnabled].
package ocr
