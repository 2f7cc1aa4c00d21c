package extraction

// SystemPrompt frames the model for every submission.
const SystemPrompt = `You are an expert in understanding invoices.
You will receive input images as invoices and will have to answer questions based on the input image.`
