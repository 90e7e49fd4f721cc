package embed

import (
	"context"
	"errors"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

type VertexEmbedder struct {
	client   *aiplatform.PredictionClient
	endpoint string
}

func NewVertexEmbedder(ctx context.Context, projectID, location, model string, opts ...option.ClientOption) (*VertexEmbedder, error) {
	if projectID == "" {
		return nil, errors.New("GCP_PROJECT_ID environment variable is not set")
	}
	if model == "" {
		model = "text-embedding-005"
	}
	opts = append(opts, option.WithEndpoint(location+"-aiplatform.googleapis.com:443"))
	c, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &VertexEmbedder{
		client:   c,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", projectID, location, model),
	}, nil
}

func (e *VertexEmbedder) Close() error { return e.client.Close() }

func (e *VertexEmbedder) Embed(ctx context.Context, text string, task TaskType) ([]float32, error) {
	instance, err := structpb.NewValue(map[string]any{
		"content":   text,
		"task_type": string(task),
	})
	if err != nil {
		return nil, err
	}
	params, err := structpb.NewValue(map[string]any{
		"outputDimensionality": Dimensions,
	})
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   e.endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.GetPredictions()) == 0 {
		return nil, errors.New("embed: empty prediction")
	}
	return parseEmbedding(resp.GetPredictions()[0])
}

func parseEmbedding(pred *structpb.Value) ([]float32, error) {
	values := pred.GetStructValue().GetFields()["embeddings"].GetStructValue().GetFields()["values"].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, errors.New("embed: prediction has no values")
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v.GetNumberValue())
	}
	return out, nil
}
