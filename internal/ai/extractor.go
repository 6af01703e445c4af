package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"resto-backoffice/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/shopspring/decimal"
)

// Extractor reads a photographed document (delivery bill, POS ticket, or
// count sheet) into structured lines for review.
type Extractor interface {
	ExtractDocument(ctx context.Context, kind core.FlowKind, image []byte, mimeType string) (*ExtractedDocument, error)
}

// ExtractedLine is one document line as returned by the model. Numeric fields
// are strings so the model can leave them blank when unreadable.
type ExtractedLine struct {
	Name       string `json:"name" jsonschema_description:"Product or dish name as printed"`
	Quantity   string `json:"quantity" jsonschema_description:"Quantity as a plain decimal, e.g. 2.5"`
	Unit       string `json:"unit" jsonschema_description:"Unit label as printed (KG, L, PC, ...), empty if absent"`
	UnitPrice  string `json:"unit_price" jsonschema_description:"Unit price as a plain decimal, empty if absent"`
	TotalPrice string `json:"total_price" jsonschema_description:"Line total as a plain decimal, empty if absent"`
}

// ExtractedDocument is the structured output of one document extraction.
type ExtractedDocument struct {
	SupplierName string          `json:"supplier_name" jsonschema_description:"Supplier or vendor name, empty if absent"`
	Date         string          `json:"date" jsonschema_description:"Document date as YYYY-MM-DD, empty if unreadable"`
	TotalAmount  string          `json:"total_amount" jsonschema_description:"Document total as a plain decimal, empty if absent"`
	Lines        []ExtractedLine `json:"lines" jsonschema_description:"Every line item on the document, in order"`
}

// ToFlow converts the extraction into the review flow's header and items.
// Unparseable or blank numeric fields become nil; a line without a usable
// quantity defaults to 1.
func (d *ExtractedDocument) ToFlow() (core.FlowHeader, []core.LineItem) {
	header := core.FlowHeader{
		SupplierName: d.SupplierName,
		Date:         d.Date,
		TotalAmount:  parseDecimal(d.TotalAmount),
	}

	items := make([]core.LineItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Name == "" {
			continue
		}
		qty := decimal.NewFromInt(1)
		if q := parseDecimal(l.Quantity); q != nil && q.IsPositive() {
			qty = *q
		}
		items = append(items, core.LineItem{
			Name:       l.Name,
			Quantity:   qty,
			Unit:       core.Unit(l.Unit),
			UnitPrice:  parseDecimal(l.UnitPrice),
			TotalPrice: parseDecimal(l.TotalPrice),
		})
	}
	return header, items
}

func parseDecimal(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// VisionExtractor calls the OpenAI responses API with the document image and
// a strict JSON schema built from ExtractedDocument.
type VisionExtractor struct {
	client *openai.Client
}

func NewVisionExtractor(apiKey string) *VisionExtractor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &VisionExtractor{client: &client}
}

func promptFor(kind core.FlowKind) string {
	switch kind {
	case core.FlowSales:
		return `You are reading a photographed restaurant POS ticket (sales receipt).
Extract every sold item line: the dish name exactly as printed, the quantity sold,
the unit price and the line total when visible. Also extract the ticket date and
the ticket total. Leave any unreadable field empty. Do not invent lines.`
	case core.FlowSync:
		return `You are reading a photographed inventory count sheet.
Extract every counted line: the product name exactly as written and the counted
quantity with its unit when visible. Leave any unreadable field empty.
Do not invent lines.`
	default:
		return `You are reading a photographed supplier delivery bill or invoice.
Extract the supplier name, the document date, the document total, and every
delivered line: product name exactly as printed, quantity, unit, unit price and
line total when visible. Leave any unreadable field empty. Do not invent lines.`
	}
}

func (e *VisionExtractor) ExtractDocument(ctx context.Context, kind core.FlowKind, image []byte, mimeType string) (*ExtractedDocument, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty document image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	content := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: promptFor(kind)}},
		{OfInputImage: &responses.ResponseInputImageParam{
			ImageURL: param.NewOpt(dataURI),
			Detail:   responses.ResponseInputImageDetailAuto,
		}},
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				{OfMessage: &responses.EasyInputMessageParam{
					Role: responses.EasyInputMessageRoleUser,
					Content: responses.EasyInputMessageContentUnionParam{
						OfInputItemContentList: content,
					},
				}},
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "extracted_document",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Structured line items extracted from a restaurant document"),
				},
			},
		},
	}

	resp, err := e.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	output := resp.OutputText()
	if output == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var doc ExtractedDocument
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}
	return &doc, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v ExtractedDocument
	return reflector.Reflect(v)
}
