package client

const loginMutation = `
mutation Login($username: String!, $password: String!) {
  login(username: $username, password: $password) {
    __typename
    ... on CurrentUser { id identifier }
    ... on ErrorResult { message errorCode }
  }
}
`

const createFacetMutation = `
mutation CreateFacet($input: CreateFacetInput!) {
  createFacet(input: $input) { id code name values { id code name } }
}
`

const createFacetValueMutation = `
mutation CreateFacetValue($input: CreateFacetValueInput!) {
  createFacetValue(input: $input) { id code name }
}
`

const createCollectionMutation = `
mutation CreateCollection($input: CreateCollectionInput!) {
  createCollection(input: $input) { id slug name }
}
`

const addProductsToCollectionMutation = `
mutation AddProductsToCollection($collectionId: ID!, $productIds: [ID!]!) {
  addProductsToCollection(collectionId: $collectionId, productIds: $productIds) { id }
}
`

const createProductMutation = `
mutation CreateProduct($input: CreateProductInput!) {
  createProduct(input: $input) { id name slug enabled }
}
`

const updateProductMutation = `
mutation UpdateProduct($input: UpdateProductInput!) {
  updateProduct(input: $input) { id facetValues { id name } }
}
`

const createOptionGroupMutation = `
mutation CreateGroup($input: CreateProductOptionGroupInput!) {
  createProductOptionGroup(input: $input) { id code }
}
`

const addOptionGroupToProductMutation = `
mutation AddGroup($productId: ID!, $optionGroupId: ID!) {
  addOptionGroupToProduct(productId: $productId, optionGroupId: $optionGroupId) { id }
}
`

const createOptionMutation = `
mutation CreateOption($input: CreateProductOptionInput!) {
  createProductOption(input: $input) { id code }
}
`

const createProductVariantsMutation = `
mutation CreateProductVariants($input: [CreateProductVariantInput!]!) {
  createProductVariants(input: $input) {
    ... on ProductVariant { id sku name price }
    ... on ErrorResult { errorCode message }
  }
}
`

const createAssetsMutation = `
mutation CreateAssets($input: [CreateAssetInput!]!) {
  createAssets(input: $input) {
    ... on Asset { id source preview }
    ... on ErrorResult { message }
  }
}
`

const reindexMutation = `
mutation Reindex {
  reindex { id state progress }
}
`
